// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package halgpu implements render.Device on top of github.com/gogpu/wgpu/hal.
//
// Any registered hal backend works: Vulkan, Metal, DX12 and GLES through
// github.com/gogpu/wgpu/hal/allbackends, the CPU rasterizer, or the noop
// backend in tests.
//
// # Opening a Device
//
//	import _ "github.com/gogpu/wgpu/hal/allbackends"
//
//	dev, err := halgpu.Open(halgpu.WithLabel("sketch"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Destroy()
//
// Open tries backends in the order Vulkan, Metal, DX12, GL and finally the
// empty backend (software or noop, whichever the program imports). Hosts
// that already own a hal device use FromProvider or New.
//
// # Framebuffers
//
// Offscreen framebuffers pair a floating-point color attachment with a
// Depth32Float attachment. The color format defaults to RGBA16Float, which
// WebGPU can blend and filter without extensions; the CPU backend uses
// RGBA8Unorm. WithFramebufferFormat overrides the choice.
//
// # Limits
//
// WebGPU rasterizes points and lines one pixel wide, so DrawParams.PointSize
// and DrawParams.LineWidth have no effect. DrawParams.Smooth is ignored:
// the float color formats used for framebuffers are not multisampled.
package halgpu
