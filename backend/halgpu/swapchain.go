// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/p5/render"
	"github.com/gogpu/p5/surface"
)

// ErrFrameInFlight is returned by Acquire before the previous frame was
// presented.
var ErrFrameInFlight = errors.New("halgpu: previous frame not presented")

// CreateSurface creates a hal surface for a native window on the instance
// Open created. Devices from New or FromProvider have no instance.
func (d *Device) CreateSurface(displayHandle, windowHandle uintptr) (hal.Surface, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if d.instance == nil {
		return nil, errors.New("halgpu: device has no instance to create surfaces on")
	}
	s, err := d.instance.CreateSurface(displayHandle, windowHandle)
	if err != nil {
		return nil, fmt.Errorf("halgpu: create surface: %w", err)
	}
	return s, nil
}

// Swapchain presents frames to a hal surface. It implements
// [surface.Swapchain].
type Swapchain struct {
	dev     *Device
	surf    hal.Surface
	owned   bool
	format  gputypes.TextureFormat
	present gputypes.PresentMode

	width, height int
	configured    bool
	current       *surfaceTarget
}

// NewSwapchain returns a swapchain over s in the device's surface format.
// With vsync set frames are presented in FIFO order, otherwise immediately.
// The swapchain destroys s when it is destroyed.
func (d *Device) NewSwapchain(s hal.Surface, vsync bool) *Swapchain {
	mode := gputypes.PresentModeImmediate
	if vsync {
		mode = gputypes.PresentModeFifo
	}
	return &Swapchain{dev: d, surf: s, owned: true, format: d.opts.surfaceFormat, present: mode}
}

// Configure sizes the surface in pixels.
func (s *Swapchain) Configure(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("halgpu: swapchain: invalid size %dx%d", width, height)
	}
	err := s.surf.Configure(s.dev.dev, &hal.SurfaceConfiguration{
		Width:       uint32(width),
		Height:      uint32(height),
		Format:      s.format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: s.present,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	})
	if err != nil {
		return fmt.Errorf("halgpu: configure surface: %w", err)
	}
	s.width, s.height = width, height
	s.configured = true
	slogger().Debug("halgpu: surface configured", "width", width, "height", height, "format", s.format.String())
	return nil
}

// Acquire returns the next surface texture as a render target.
func (s *Swapchain) Acquire() (render.Target, error) {
	if !s.configured {
		return nil, errors.New("halgpu: swapchain not configured")
	}
	if s.current != nil {
		return nil, ErrFrameInFlight
	}
	acquired, err := s.surf.AcquireTexture(nil)
	if errors.Is(err, hal.ErrSurfaceOutdated) {
		if err := s.Configure(s.width, s.height); err != nil {
			return nil, err
		}
		acquired, err = s.surf.AcquireTexture(nil)
	}
	switch {
	case errors.Is(err, hal.ErrSurfaceLost):
		return nil, fmt.Errorf("%w: %w", surface.ErrWindowClosed, err)
	case err != nil:
		return nil, fmt.Errorf("halgpu: acquire surface texture: %w", err)
	}
	if acquired.Suboptimal {
		slogger().Debug("halgpu: surface suboptimal")
	}

	view, err := s.dev.dev.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
		Label:           s.dev.label("surface-view"),
		Format:          s.format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		s.surf.DiscardTexture(acquired.Texture)
		return nil, fmt.Errorf("halgpu: surface texture view: %w", err)
	}
	s.current = &surfaceTarget{
		dev:    s.dev,
		tex:    acquired.Texture,
		view:   view,
		w:      s.width,
		h:      s.height,
		format: s.format,
	}
	return s.current, nil
}

// Present shows the frame returned by the last Acquire.
func (s *Swapchain) Present(t render.Target) error {
	if s.current == nil || t != render.Target(s.current) {
		return fmt.Errorf("%w: %T is not the acquired frame", ErrForeignResource, t)
	}
	frame := s.current
	s.current = nil
	err := s.dev.queue.Present(s.surf, frame.tex, nil)
	s.dev.release(func() { s.dev.dev.DestroyTextureView(frame.view) })
	if err != nil {
		if errors.Is(err, hal.ErrSurfaceLost) {
			return fmt.Errorf("%w: %w", surface.ErrWindowClosed, err)
		}
		return fmt.Errorf("halgpu: present: %w", err)
	}
	return nil
}

// Destroy discards an unpresented frame, unconfigures the surface and
// destroys it.
func (s *Swapchain) Destroy() {
	if s.surf == nil {
		return
	}
	if s.current != nil {
		s.surf.DiscardTexture(s.current.tex)
		s.dev.dev.DestroyTextureView(s.current.view)
		s.current = nil
	}
	if err := s.dev.flush(); err != nil {
		slogger().Warn("halgpu: wait idle on swapchain destroy", "error", err)
	}
	if s.configured {
		s.surf.Unconfigure(s.dev.dev)
	}
	if s.owned {
		s.surf.Destroy()
	}
	s.surf = nil
}

// surfaceTarget is an acquired surface texture. It has no depth attachment.
type surfaceTarget struct {
	dev    *Device
	tex    hal.SurfaceTexture
	view   hal.TextureView
	w, h   int
	format gputypes.TextureFormat
}

func (t *surfaceTarget) Width() int                     { return t.w }
func (t *surfaceTarget) Height() int                    { return t.h }
func (t *surfaceTarget) Format() gputypes.TextureFormat { return t.format }
func (t *surfaceTarget) HasDepth() bool                 { return false }
func (t *surfaceTarget) colorTexture() hal.Texture      { return t.tex }
func (t *surfaceTarget) colorView() hal.TextureView     { return t.view }
func (t *surfaceTarget) depthView() hal.TextureView     { return nil }
func (t *surfaceTarget) owner() *Device                 { return t.dev }

var _ surface.Swapchain = (*Swapchain)(nil)
