package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/p5/render"
)

// Headless is a Surface without a window. Frames are presented into a
// device framebuffer that can be read back with Snapshot; input comes from
// Inject.
type Headless struct {
	dev           render.Device
	width, height int
	fb            render.Framebuffer

	queue     []Event
	closed    bool
	focused   bool
	cursor    gpucontext.CursorShape
	presented int
}

// NewHeadless returns a headless surface of the given pixel size.
func NewHeadless(dev render.Device, width, height int) (*Headless, error) {
	if dev == nil {
		return nil, fmt.Errorf("%w: headless surface needs a device", ErrUnavailable)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("surface: invalid headless size %dx%d", width, height)
	}
	return &Headless{dev: dev, width: width, height: height, focused: true}, nil
}

func (h *Headless) FramebufferSize() (int, int) { return h.width, h.height }

func (h *Headless) Acquire() (render.Target, error) {
	if h.closed {
		return nil, ErrWindowClosed
	}
	if h.fb == nil {
		fb, err := h.dev.CreateFramebuffer("p5-headless", h.width, h.height)
		if err != nil {
			return nil, fmt.Errorf("surface: headless target: %w", err)
		}
		h.fb = fb
	}
	return h.fb, nil
}

func (h *Headless) Present(target render.Target) error {
	if h.closed {
		return ErrWindowClosed
	}
	if target == nil || target != render.Target(h.fb) {
		return errors.New("surface: present of a target not acquired from this surface")
	}
	h.presented++
	return nil
}

// PollEvents returns the injected events. Resize events change the surface
// size; a close request closes the surface after it is delivered.
func (h *Headless) PollEvents() []Event {
	events := h.queue
	h.queue = nil
	for _, ev := range events {
		switch ev.Kind {
		case EventResize:
			h.Resize(ev.Width, ev.Height)
		case EventFocus:
			h.focused = ev.Focused
		case EventClose:
			_ = h.Close()
		}
	}
	return events
}

// Inject queues events for the next PollEvents.
func (h *Headless) Inject(events ...Event) {
	h.queue = append(h.queue, events...)
}

// Resize changes the framebuffer size. Non-positive sizes are ignored.
func (h *Headless) Resize(width, height int) {
	if width <= 0 || height <= 0 || (width == h.width && height == h.height) {
		return
	}
	h.width, h.height = width, height
	if h.fb != nil {
		h.fb.Destroy()
		h.fb = nil
	}
}

// Snapshot reads back the last presented frame.
func (h *Headless) Snapshot() (*render.Pixels, error) {
	if h.fb == nil {
		return nil, errors.New("surface: nothing presented")
	}
	return h.dev.ReadPixels(h.fb)
}

// Presented returns the number of frames presented.
func (h *Headless) Presented() int { return h.presented }

// SetCursor records the cursor shape.
func (h *Headless) SetCursor(shape gpucontext.CursorShape) error {
	if h.closed {
		return ErrWindowClosed
	}
	h.cursor = shape
	return nil
}

// Cursor returns the last shape passed to SetCursor.
func (h *Headless) Cursor() gpucontext.CursorShape { return h.cursor }

func (h *Headless) Focused() bool { return h.focused && !h.closed }

func (h *Headless) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	if h.fb != nil {
		h.fb.Destroy()
		h.fb = nil
	}
	return nil
}

var (
	_ Surface       = (*Headless)(nil)
	_ CursorSetter  = (*Headless)(nil)
	_ FocusReporter = (*Headless)(nil)
)
