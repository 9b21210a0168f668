// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/p5/render"
)

// Config selects and sizes a surface.
type Config struct {
	// Device renders into the surface.
	Device render.Device

	// Width and Height are the requested size in pixels.
	Width, Height int

	Title      string
	Fullscreen bool
	VSync      bool

	// Window is the host window for the "window" backend. Nil means no
	// window is available.
	Window *WindowConfig
}

// Opener creates a Surface from a Config. It returns an error wrapping
// ErrUnavailable when it cannot serve the Config, so Open can try the
// next backend.
type Opener func(cfg Config) (Surface, error)

// priority is the selection order of Open with an empty name.
var priority = []string{"window", "headless"}

var openers = gpucontext.NewRegistry[Opener](gpucontext.WithPriority(priority...))

func init() {
	Register("headless", openHeadless)
	Register("window", openWindow)
}

func openHeadless(cfg Config) (Surface, error) {
	return NewHeadless(cfg.Device, cfg.Width, cfg.Height)
}

func openWindow(cfg Config) (Surface, error) {
	if cfg.Window == nil {
		return nil, fmt.Errorf("%w: no host window", ErrUnavailable)
	}
	return NewWindow(*cfg.Window)
}

// Register adds or replaces the opener for name.
func Register(name string, open Opener) {
	openers.Register(name, func() Opener { return open })
}

// Unregister removes the opener for name.
func Unregister(name string) {
	openers.Unregister(name)
}

// Available returns the registered backend names in selection order.
func Available() []string {
	names := openers.Available()
	rank := make(map[string]int, len(priority))
	for i, n := range priority {
		rank[n] = i
	}
	sort.Slice(names, func(i, j int) bool {
		ri, iok := rank[names[i]]
		rj, jok := rank[names[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return names[i] < names[j]
	})
	return names
}

// Open creates a surface with the named backend. An empty name tries every
// backend in selection order and returns the first that is not
// unavailable.
func Open(name string, cfg Config) (Surface, error) {
	if name != "" {
		if !openers.Has(name) {
			return nil, fmt.Errorf("%w: unknown backend %q", ErrUnavailable, name)
		}
		return openers.Get(name)(cfg)
	}

	var errs []error
	for _, n := range Available() {
		open := openers.Get(n)
		if open == nil {
			continue
		}
		s, err := open(cfg)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return nil, fmt.Errorf("surface: open %s: %w", n, err)
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: no backends registered", ErrUnavailable)
	}
	return nil, errors.Join(errs...)
}
