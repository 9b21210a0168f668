// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface is the windowing collaborator of p5.
//
// A Surface owns the presentable image and the input event stream. p5
// renders every frame offscreen and, on reveal, asks the surface for a
// target, blits into it and presents it.
//
// # Surface Types
//
//   - Headless: fixed-size device framebuffer, events injected by the caller.
//     Used for automation, tests and screenshot tools.
//   - Window: adapts a host window (gpucontext.WindowProvider,
//     gpucontext.EventSource, gpucontext.PlatformProvider) and a Swapchain.
//
// Optional capabilities are discovered by type assertion: CursorSetter for
// cursor shape control and FocusReporter for window focus.
//
// # Registry
//
// Backends register an Opener under a name:
//
//	surface.Register("window", openWindow)
//
//	// Later, best available backend:
//	s, err := surface.Open("", surface.Config{Device: dev, Width: 800, Height: 600})
//
// # Termination
//
// Once closed, Acquire and Present return ErrWindowClosed. Callers treat it
// as the signal to leave their draw loop.
package surface
