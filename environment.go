package p5

import (
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/p5/surface"
)

// Cursor sets the mouse cursor shape.
func (s *Screen) Cursor(k CursorKind) error {
	shape, err := k.Shape()
	if err != nil {
		return err
	}
	return s.setCursor(shape)
}

// NoCursor hides the mouse cursor.
func (s *Screen) NoCursor() error { return s.setCursor(gpucontext.CursorNone) }

// ResetCursor restores the default arrow cursor.
func (s *Screen) ResetCursor() error { return s.setCursor(gpucontext.CursorDefault) }

func (s *Screen) setCursor(shape gpucontext.CursorShape) error {
	if err := s.check(); err != nil {
		return err
	}
	cs, ok := s.surf.(surface.CursorSetter)
	if !ok {
		return ErrCursorUnsupported
	}
	if err := cs.SetCursor(shape); err != nil {
		return fmt.Errorf("p5: set cursor: %w", err)
	}
	return nil
}

// Focused reports whether the window has input focus. Surfaces that cannot
// tell are treated as focused.
func (s *Screen) Focused() bool {
	if s.closed {
		return false
	}
	if fr, ok := s.surf.(surface.FocusReporter); ok {
		return fr.Focused()
	}
	return true
}

// Width returns the framebuffer width in pixels.
func (s *Screen) Width() int {
	w, _ := s.surf.FramebufferSize()
	return w
}

// Height returns the framebuffer height in pixels.
func (s *Screen) Height() int {
	_, h := s.surf.FramebufferSize()
	return h
}
