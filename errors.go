package p5

import (
	"errors"
	"fmt"

	"github.com/gogpu/p5/internal/shader"
	"github.com/gogpu/p5/internal/tess"
	"github.com/gogpu/p5/surface"
)

// Resource creation errors. The backend error is wrapped alongside.
var (
	ErrTextureCreate     = errors.New("p5: texture creation failed")
	ErrShaderCompile     = errors.New("p5: shader compilation failed")
	ErrVertexBuffer      = errors.New("p5: vertex buffer creation failed")
	ErrIndexBuffer       = errors.New("p5: index buffer creation failed")
	ErrFramebufferCreate = errors.New("p5: framebuffer creation failed")
	ErrSurfaceCreate     = errors.New("p5: surface creation failed")
)

// Per-frame errors.
var (
	// ErrDrawFailed is wrapped by every *DrawError.
	ErrDrawFailed = errors.New("p5: draw failed")

	// ErrSwapFailed is returned by Reveal when the frame could not be
	// acquired or presented for a reason other than a closed window.
	ErrSwapFailed = errors.New("p5: swap failed")

	// ErrWindowClosed ends the frame loop. Reveal returns it unwrapped.
	ErrWindowClosed = surface.ErrWindowClosed

	// ErrCursorUnsupported is returned when the surface cannot change the
	// cursor.
	ErrCursorUnsupported = surface.ErrCursorUnsupported
)

// I/O errors.
var (
	ErrShaderNotFound  = errors.New("p5: shader source not found")
	ErrIncludeNotFound = shader.ErrIncludeNotFound
	ErrIncludeSyntax   = shader.ErrIncludeSyntax
	ErrIncludeCycle    = shader.ErrIncludeCycle
	ErrImageNotFound   = errors.New("p5: image not found")
	ErrImageNotSaved   = errors.New("p5: image not saved")
)

// Caller errors.
var (
	ErrUnsupportedColorMode = errors.New("p5: color mode not supported")
	ErrUnsupportedMode      = errors.New("p5: unsupported mode")
	ErrParamLength          = tess.ErrParamLength
	ErrNoColor              = errors.New("p5: no color given")
	ErrUniformLayout        = errors.New("p5: uniform layout does not match the program")
	ErrNoProgram            = errors.New("p5: no such shader program")
	ErrDestroyed            = errors.New("p5: use after destroy")
	ErrNotPositive          = errors.New("p5: value must be positive")
)

// IncludeError locates a failed #include line.
type IncludeError = shader.IncludeError

// DrawError reports a rejected draw call.
type DrawError struct {
	// Pass is "fill", "stroke" or "blit".
	Pass    string
	Program int
	Err     error
}

func (e *DrawError) Error() string {
	return fmt.Sprintf("p5: %s draw with program %d: %v", e.Pass, e.Program, e.Err)
}

// Unwrap returns ErrDrawFailed and the backend error.
func (e *DrawError) Unwrap() []error { return []error{ErrDrawFailed, e.Err} }
