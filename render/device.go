// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Device is the GPU collaborator p5 draws through.
//
// Resources returned by a Device belong to it and must only be passed back to
// the same Device. A Device is used from one goroutine.
type Device interface {
	// CreateVertexBuffer uploads vertices.
	CreateVertexBuffer(label string, vertices []Vertex) (Buffer, error)

	// CreateIndexBuffer uploads uint32 indices.
	CreateIndexBuffer(label string, indices []uint32) (Buffer, error)

	// CompileProgram builds a program from WGSL source.
	CompileProgram(desc ProgramDesc) (Program, error)

	// CreateTexture creates a sampled 2D texture, optionally with initial pixels.
	CreateTexture(desc TextureDesc) (Texture, error)

	// CreateFramebuffer creates a high-precision float color target with a
	// Depth32Float attachment. Its color can also be sampled.
	CreateFramebuffer(label string, width, height int) (Framebuffer, error)

	// Clear clears the target's color to c and its depth (if any) to 1.
	Clear(target Target, c gputypes.Color) error

	// Draw issues one draw call into target.
	Draw(target Target, call *DrawCall) error

	// ReadPixels reads the color attachment of fb back to the CPU.
	ReadPixels(fb Framebuffer) (*Pixels, error)

	// Destroy releases everything the device owns.
	Destroy()
}

// Buffer is an uploaded vertex or index buffer.
type Buffer interface {
	// Len returns the number of vertices or indices.
	Len() int
	Destroy()
}

// Texture is a sampled 2D texture.
type Texture interface {
	gpucontext.Texture
	Format() gputypes.TextureFormat
	Destroy()
}

// Program is a compiled WGSL program.
type Program interface {
	Label() string
	Destroy()
}

// Target is something a draw can render into.
type Target interface {
	Width() int
	Height() int
	Format() gputypes.TextureFormat
	// HasDepth reports whether the target carries a depth attachment.
	HasDepth() bool
}

// Framebuffer is an offscreen Target whose color attachment is a Texture.
type Framebuffer interface {
	Target
	Texture() Texture
	Destroy()
}

// ProgramDesc describes a program to compile.
//
// Source must define vs_main and fs_main, read the vertex layout of
// [VertexLayout], declare Uniforms as a uniform struct at @group(0)
// @binding(0), and declare each texture in Textures as a texture_2d<f32> at
// @binding(1+2i) with its sampler at @binding(2+2i).
type ProgramDesc struct {
	Label    string
	Source   string
	Uniforms *Uniforms
	Textures []string
}

// TextureDesc describes a texture to create.
type TextureDesc struct {
	Label  string
	Width  int
	Height int
	// Format defaults to RGBA8Unorm.
	Format gputypes.TextureFormat
	// Pixels holds tightly packed rows, top row first. May be nil.
	Pixels []byte
}

// TextureBinding binds a texture to a program's named texture slot.
type TextureBinding struct {
	Name    string
	Texture Texture
}

// DrawCall is everything needed to issue one draw.
type DrawCall struct {
	Label    string
	Program  Program
	Vertices Buffer
	// Indices is nil for "no buffer" rules.
	Indices  Buffer
	Rule     IndexRule
	Uniforms *Uniforms
	Textures []TextureBinding
	Params   DrawParams
}
