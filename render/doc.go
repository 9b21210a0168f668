// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render defines the contract between p5 and a GPU backend.
//
// p5 never talks to a graphics API directly. Everything it needs from the GPU
// goes through the narrow [Device] interface defined here:
//
//   - create a vertex buffer from [Vertex] data
//   - create an index buffer from uint32 indices
//   - compile a program from WGSL source
//   - create a 2D texture or an offscreen [Framebuffer]
//   - clear a [Target], issue a [DrawCall] against it, read a framebuffer back
//
// # Vertex Layout
//
// All programs share one vertex layout: position (3 x f32), color (4 x f32,
// straight alpha) and texture coordinate (2 x f32), 36 bytes per vertex,
// little-endian. See [VertexLayout].
//
// # Index Rules
//
// A shape draws either with an explicit index list or with a "no buffer"
// rule naming a primitive type. WebGPU has no triangle-fan or line-loop
// topology, so [Assemble] turns fan and loop rules into index lists, one
// segment per shape instance.
//
// # Implementations
//
//   - backend/halgpu: github.com/gogpu/wgpu/hal (Vulkan, Metal, DX12, GLES, noop)
//   - render/rendertest: recording fake for tests
package render
