package p5

import (
	"errors"
	"fmt"

	"github.com/gogpu/p5/internal/tess"
	"github.com/gogpu/p5/render"
	"github.com/gogpu/p5/surface"
)

// Screen is a drawing canvas backed by a surface and a render device.
//
// Shapes are drawn into an offscreen framebuffer; Reveal copies it onto the
// surface, presents it and collects input. A Screen is used from one
// goroutine.
//
// Example:
//
//	dev, err := halgpu.Open()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Destroy()
//
//	screen, err := p5.NewScreen(dev, p5.WithSize(640, 480))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer screen.Close()
//
//	rect, _ := screen.Rect([]float64{-0.5}, []float64{0.5}, nil, []float64{1}, []float64{1})
//	defer rect.Destroy()
//	for {
//	    screen.Background(p5.Gray(0.2))
//	    screen.Draw(rect)
//	    if err := screen.Reveal(); errors.Is(err, p5.ErrWindowClosed) {
//	        break
//	    }
//	}
type Screen struct {
	dev  render.Device
	surf surface.Surface

	state     *RenderState
	transform *TransformStack
	bank      *shaderBank
	binding   ShaderBinding

	fb   render.Framebuffer
	blit *Shape

	frameCount uint64
	frameRate  int
	input      inputState

	closed bool
}

// NewScreen opens a surface and prepares dev for drawing onto it.
//
// The Screen does not own dev; destroy it after Close. Unless WithSurface is
// given, the surface is opened from the surface registry with the size,
// title and window options.
func NewScreen(dev render.Device, opts ...Option) (*Screen, error) {
	if dev == nil {
		return nil, fmt.Errorf("%w: nil device", ErrSurfaceCreate)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	surf := o.surface
	if surf == nil {
		var err error
		surf, err = surface.Open(o.surfaceBackend, surface.Config{
			Device:     dev,
			Width:      o.width,
			Height:     o.height,
			Title:      o.title,
			Fullscreen: o.fullscreen,
			VSync:      o.vsync,
			Window:     o.window,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSurfaceCreate, err)
		}
	}

	trackDevice(dev)
	s := &Screen{
		dev:       dev,
		surf:      surf,
		state:     NewRenderState(),
		transform: NewTransformStack(),
		frameRate: o.frameRate,
		input:     newInputState(),
	}
	s.state.background = o.background
	s.state.SetPreserveAspectRatio(o.preserveAspect)

	if err := s.init(); err != nil {
		_ = s.Close()
		return nil, err
	}

	w, h := surf.FramebufferSize()
	Logger().Info("p5: screen opened", "width", w, "height", h)
	return s, nil
}

func (s *Screen) init() error {
	bank, err := newShaderBank(s.dev)
	if err != nil {
		return err
	}
	s.bank = bank

	blit, err := upload(s.dev, "p5-blit", blitGeometry())
	if err != nil {
		return err
	}
	s.blit = blit

	_, err = s.offscreen()
	return err
}

// blitGeometry is a full-viewport quad in clip coordinates.
func blitGeometry() tess.Geometry {
	v := func(x, y, u, t float32) render.Vertex {
		return render.Vertex{Position: [3]float32{x, y, 0}, Color: [4]float32{1, 1, 1, 1}, TexCoord: [2]float32{u, t}}
	}
	return tess.Geometry{
		Fill: tess.Mesh{
			Vertices: []render.Vertex{v(-1, -1, 0, 0), v(1, -1, 1, 0), v(1, 1, 1, 1), v(-1, 1, 0, 1)},
			Rule:     render.IndexRule{Primitive: render.PrimitiveTriangleList, Indices: []uint32{0, 1, 2, 0, 2, 3}},
		},
	}
}

// check returns ErrDestroyed after Close.
func (s *Screen) check() error {
	if s.closed {
		return fmt.Errorf("p5: screen: %w", ErrDestroyed)
	}
	return nil
}

// State returns the render state. Changes apply to shapes built and draws
// issued afterwards.
func (s *Screen) State() *RenderState { return s.state }

// Device returns the render device.
func (s *Screen) Device() render.Device { return s.dev }

// Surface returns the surface frames are presented to.
func (s *Screen) Surface() surface.Surface { return s.surf }

// Close releases the programs, framebuffer and surface. The device stays
// usable. Later calls do nothing.
func (s *Screen) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.blit != nil {
		s.blit.Destroy()
	}
	if s.fb != nil {
		s.fb.Destroy()
		s.fb = nil
	}
	if s.bank != nil {
		s.bank.destroy()
	}
	err := s.surf.Close()
	untrackDevice(s.dev)
	if err != nil && !errors.Is(err, ErrWindowClosed) {
		return fmt.Errorf("p5: close surface: %w", err)
	}
	Logger().Info("p5: screen closed", "frames", s.frameCount)
	return nil
}

// Fill sets the fill colors. See RenderState.Fill.
func (s *Screen) Fill(colors ...Color) error { return s.state.Fill(colors...) }

// Stroke sets the stroke colors. See RenderState.Stroke.
func (s *Screen) Stroke(colors ...Color) error { return s.state.Stroke(colors...) }

// FillOff disables fill.
func (s *Screen) FillOff() { s.state.FillOff() }

// StrokeOff disables stroke.
func (s *Screen) StrokeOff() { s.state.StrokeOff() }

// FillOn re-enables fill.
func (s *Screen) FillOn() { s.state.FillOn() }

// StrokeOn re-enables stroke.
func (s *Screen) StrokeOn() { s.state.StrokeOn() }

// Tint multiplies textured draws by c.
func (s *Screen) Tint(c Color) error { return s.state.Tint(c) }

// NoTint turns tinting off.
func (s *Screen) NoTint() { s.state.NoTint() }

// StrokeWeight sets the point size and line width.
func (s *Screen) StrokeWeight(w float32) error { return s.state.StrokeWeight(w) }

// BlendMode selects the blend equation of later draws.
func (s *Screen) BlendMode(m BlendMode) error { return s.state.SetBlendMode(m) }

// ColorMode records how color components are interpreted.
func (s *Screen) ColorMode(m ColorMode) error { return s.state.SetColorMode(m) }

// EllipseMode sets the anchor of ellipses and arcs.
func (s *Screen) EllipseMode(m AnchorMode) error { return s.state.EllipseMode(m) }

// RectMode sets the anchor of rects.
func (s *Screen) RectMode(m AnchorMode) error { return s.state.RectMode(m) }

// ShapeMode records the anchor of free-form shapes.
func (s *Screen) ShapeMode(m AnchorMode) error { return s.state.ShapeMode(m) }

// ImageMode records the anchor of images.
func (s *Screen) ImageMode(m AnchorMode) error { return s.state.ImageMode(m) }

// Smooth requests antialiased drawing.
func (s *Screen) Smooth() { s.state.Smooth() }

// NoSmooth turns antialiasing off.
func (s *Screen) NoSmooth() { s.state.NoSmooth() }
