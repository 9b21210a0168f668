package p5

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/p5/internal/shader"
	"github.com/gogpu/p5/render"
	"github.com/gogpu/p5/surface"
)

// offscreen returns the framebuffer shapes are drawn into, recreating it
// when the surface size changed. A new framebuffer starts cleared to the
// background color.
func (s *Screen) offscreen() (render.Framebuffer, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	w, h := s.surf.FramebufferSize()
	if s.fb != nil {
		if w == s.fb.Width() && h == s.fb.Height() {
			return s.fb, nil
		}
		// Minimized windows report a zero size; keep drawing into the old
		// framebuffer.
		if w <= 0 || h <= 0 {
			return s.fb, nil
		}
	}

	fb, err := s.dev.CreateFramebuffer("p5-offscreen", w, h)
	if err != nil {
		return nil, fmt.Errorf("%w: %dx%d: %w", ErrFramebufferCreate, w, h, err)
	}
	if err := s.dev.Clear(fb, s.state.background.gpu()); err != nil {
		fb.Destroy()
		return nil, fmt.Errorf("%w: clear: %w", ErrFramebufferCreate, err)
	}
	if s.fb != nil {
		s.fb.Destroy()
		Logger().Debug("p5: framebuffer resized", "width", w, "height", h)
	}
	s.fb = fb
	s.state.setAspect(w, h)
	return fb, nil
}

// Background clears the offscreen framebuffer to c. c is also the color a
// resized framebuffer starts with.
func (s *Screen) Background(c Color) error {
	if err := s.state.SetBackground(c); err != nil {
		return err
	}
	fb, err := s.offscreen()
	if err != nil {
		return err
	}
	if err := s.dev.Clear(fb, c.gpu()); err != nil {
		return fmt.Errorf("%w: background: %w", ErrDrawFailed, err)
	}
	return nil
}

// Reveal shows the frame drawn since the last Reveal and latches the input
// that arrived meanwhile.
//
// ErrWindowClosed is returned unwrapped once the surface is gone. Other
// acquire and present failures wrap ErrSwapFailed. A failed blit is
// returned as a *DrawError after the frame was presented and counted.
func (s *Screen) Reveal() error {
	_, err := s.reveal()
	return err
}

// RevealWithEvents is Reveal returning every event polled in this frame,
// not only the latched ones.
func (s *Screen) RevealWithEvents() ([]surface.Event, error) {
	return s.reveal()
}

func (s *Screen) reveal() ([]surface.Event, error) {
	src, err := s.offscreen()
	if err != nil {
		return nil, err
	}
	target, err := s.surf.Acquire()
	if err != nil {
		return nil, swapError("acquire", err)
	}
	blitErr := s.drawBlit(target, src)
	if err := s.surf.Present(target); err != nil {
		return nil, swapError("present", err)
	}
	events := s.surf.PollEvents()
	s.input.latch(events)
	s.frameCount++
	return events, blitErr
}

func swapError(op string, err error) error {
	if errors.Is(err, ErrWindowClosed) {
		return ErrWindowClosed
	}
	return fmt.Errorf("%w: %s: %w", ErrSwapFailed, op, err)
}

// drawBlit copies src onto target through the blit program.
func (s *Screen) drawBlit(target render.Target, src render.Framebuffer) error {
	p, err := s.bank.get(shader.SlotBlit)
	if err != nil {
		return &DrawError{Pass: "blit", Program: shader.SlotBlit, Err: err}
	}
	params := render.DefaultDrawParams()
	params.Blend, _ = BlendReplace.State()
	params.DepthWrite = false

	call := &render.DrawCall{
		Label:    "p5-blit",
		Program:  p.prog,
		Vertices: s.blit.fill.vertices,
		Indices:  s.blit.fill.indices,
		Rule:     s.blit.fill.rule,
		Uniforms: render.NewUniforms(render.Mat4(render.MVPName, shader.Identity)),
		Textures: []render.TextureBinding{{Name: shader.TextureFramebuffer, Texture: src.Texture()}},
		Params:   params,
	}
	if err := s.dev.Draw(target, call); err != nil {
		return &DrawError{Pass: "blit", Program: shader.SlotBlit, Err: err}
	}
	return nil
}

// FrameCount returns the number of frames revealed.
func (s *Screen) FrameCount() uint64 { return s.frameCount }

// FrameRate returns the target frame rate.
func (s *Screen) FrameRate() int { return s.frameRate }

// SetFrameRate records the target frame rate. Pacing comes from vsync.
func (s *Screen) SetFrameRate(fps int) error {
	if fps <= 0 {
		return fmt.Errorf("%w: frame rate %d", ErrNotPositive, fps)
	}
	s.frameRate = fps
	return nil
}

// NewFramebuffer creates an offscreen target for DrawOnto. Its Texture can
// be attached to shapes or bound to custom programs.
func (s *Screen) NewFramebuffer(width, height int) (render.Framebuffer, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	fb, err := s.dev.CreateFramebuffer("p5-framebuffer", width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %dx%d: %w", ErrFramebufferCreate, width, height, err)
	}
	return fb, nil
}

// ClearFramebuffer clears fb to c.
func (s *Screen) ClearFramebuffer(fb render.Framebuffer, c Color) error {
	if err := s.check(); err != nil {
		return err
	}
	if err := s.dev.Clear(fb, c.gpu()); err != nil {
		return fmt.Errorf("%w: clear framebuffer: %w", ErrDrawFailed, err)
	}
	return nil
}

// DrawOnto draws shape into fb with the binding Draw uses.
func (s *Screen) DrawOnto(fb render.Framebuffer, shape *Shape) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.drawShape(fb, shape, s.binding, s.state.drawParams())
}

// DrawMouldOnto draws m into fb without writing depth.
func (s *Screen) DrawMouldOnto(fb render.Framebuffer, m *Mould) error {
	if err := s.check(); err != nil {
		return err
	}
	params := s.state.drawParams()
	params.DepthWrite = false
	params.DepthCompare = gputypes.CompareFunctionAlways
	return s.drawShape(fb, m.Shape, CustomShader(m.Info), params)
}
