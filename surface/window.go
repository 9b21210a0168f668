// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/p5/render"
)

// Swapchain is the presentable image chain of a window, provided by the
// GPU backend.
type Swapchain interface {
	// Configure (re)creates the chain for a framebuffer size in pixels.
	Configure(width, height int) error
	// Acquire returns the next presentable target.
	Acquire() (render.Target, error)
	// Present shows target.
	Present(target render.Target) error
	// Destroy releases the chain.
	Destroy()
}

// WindowConfig is the host window a Window adapts.
type WindowConfig struct {
	// Window supplies size and scale factor. Required.
	Window gpucontext.WindowProvider

	// Events delivers input. Optional; without it the window reports no input.
	Events gpucontext.EventSource

	// Platform controls the cursor. Optional.
	Platform gpucontext.PlatformProvider

	// Swapchain presents frames. Required.
	Swapchain Swapchain
}

// CloseReporter is implemented by window providers that know when the user
// asked to close the window.
type CloseReporter interface {
	ShouldClose() bool
}

// EventPump is implemented by window providers that deliver events only
// when pumped. PollEvents calls PumpEvents before draining the queue.
type EventPump interface {
	PumpEvents()
}

// Window is a Surface over a host window.
//
// Input callbacks may run on any goroutine; they are queued and handed out
// by PollEvents.
type Window struct {
	cfg WindowConfig

	mu      sync.Mutex
	queue   []Event
	focused bool

	closeRequested bool
	closed         bool
	confW, confH   int
}

// NewWindow adapts cfg. It subscribes to every callback of cfg.Events.
func NewWindow(cfg WindowConfig) (*Window, error) {
	if cfg.Window == nil {
		return nil, errors.New("surface: window config needs a WindowProvider")
	}
	if cfg.Swapchain == nil {
		return nil, errors.New("surface: window config needs a Swapchain")
	}
	w := &Window{cfg: cfg, focused: true}
	if cfg.Events != nil {
		w.subscribe(cfg.Events)
	}
	return w, nil
}

func (w *Window) subscribe(src gpucontext.EventSource) {
	src.OnKeyPress(func(k gpucontext.Key, m gpucontext.Modifiers) {
		w.push(Event{Kind: EventKeyPress, Key: k, Mods: m})
	})
	src.OnKeyRelease(func(k gpucontext.Key, m gpucontext.Modifiers) {
		w.push(Event{Kind: EventKeyRelease, Key: k, Mods: m})
	})
	src.OnTextInput(func(text string) {
		w.push(Event{Kind: EventText, Text: text})
	})
	src.OnMouseMove(func(x, y float64) {
		w.push(MouseMove(x, y))
	})
	src.OnMousePress(func(b gpucontext.MouseButton, x, y float64) {
		w.push(MousePress(b, x, y))
	})
	src.OnMouseRelease(func(b gpucontext.MouseButton, x, y float64) {
		w.push(MouseRelease(b, x, y))
	})
	src.OnScroll(func(dx, dy float64) {
		w.push(Event{Kind: EventScroll, DX: dx, DY: dy})
	})
	src.OnResize(func(width, height int) {
		w.push(Event{Kind: EventResize, Width: width, Height: height})
	})
	src.OnFocus(func(focused bool) {
		w.mu.Lock()
		w.focused = focused
		w.mu.Unlock()
		w.push(Event{Kind: EventFocus, Focused: focused})
	})
}

func (w *Window) push(ev Event) {
	w.mu.Lock()
	w.queue = append(w.queue, ev)
	w.mu.Unlock()
}

// FramebufferSize returns the window size in physical pixels.
func (w *Window) FramebufferSize() (int, int) {
	width, height := w.cfg.Window.Size()
	scale := w.cfg.Window.ScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	return int(math.Round(float64(width) * scale)), int(math.Round(float64(height) * scale))
}

func (w *Window) shouldClose() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.closeRequested {
		return true
	}
	if cr, ok := w.cfg.Window.(CloseReporter); ok && cr.ShouldClose() {
		w.closeRequested = true
		return true
	}
	return false
}

// Acquire reconfigures the swapchain when the framebuffer size changed and
// returns its next target.
func (w *Window) Acquire() (render.Target, error) {
	if w.shouldClose() {
		return nil, ErrWindowClosed
	}
	width, height := w.FramebufferSize()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("surface: window has no drawable area (%dx%d)", width, height)
	}
	if width != w.confW || height != w.confH {
		if err := w.cfg.Swapchain.Configure(width, height); err != nil {
			return nil, fmt.Errorf("surface: configure swapchain: %w", err)
		}
		w.confW, w.confH = width, height
	}
	return w.cfg.Swapchain.Acquire()
}

func (w *Window) Present(target render.Target) error {
	if w.shouldClose() {
		return ErrWindowClosed
	}
	if err := w.cfg.Swapchain.Present(target); err != nil {
		return err
	}
	w.cfg.Window.RequestRedraw()
	return nil
}

// PollEvents drains the queued events. A close request from the provider is
// appended as an EventClose.
func (w *Window) PollEvents() []Event {
	if p, ok := w.cfg.Window.(EventPump); ok {
		p.PumpEvents()
	}
	requested := false
	if cr, ok := w.cfg.Window.(CloseReporter); ok && cr.ShouldClose() {
		requested = true
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	events := w.queue
	w.queue = nil
	if requested && !w.closeRequested {
		events = append(events, CloseRequest())
	}
	for _, ev := range events {
		if ev.Kind == EventClose {
			w.closeRequested = true
		}
	}
	return events
}

// SetCursor changes the cursor shape through the platform provider.
func (w *Window) SetCursor(shape gpucontext.CursorShape) error {
	if w.cfg.Platform == nil {
		return ErrCursorUnsupported
	}
	w.cfg.Platform.SetCursor(shape)
	return nil
}

func (w *Window) Focused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focused && !w.closed
}

// Close destroys the swapchain. The host window itself stays with its owner.
func (w *Window) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	w.cfg.Swapchain.Destroy()
	return nil
}

var (
	_ Surface       = (*Window)(nil)
	_ CursorSetter  = (*Window)(nil)
	_ FocusReporter = (*Window)(nil)
)
