// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// Vertex is the single vertex format shared by every p5 program.
type Vertex struct {
	Position [3]float32
	Color    [4]float32
	TexCoord [2]float32
}

// VertexStride is the size of one packed Vertex in bytes.
const VertexStride = (3 + 4 + 2) * 4

// Shader locations of the vertex attributes.
const (
	LocationPosition = 0
	LocationColor    = 1
	LocationTexCoord = 2
)

// VertexLayout returns the vertex buffer layout matching [PackVertices].
func VertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: LocationPosition},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 12, ShaderLocation: LocationColor},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 28, ShaderLocation: LocationTexCoord},
			},
		},
	}
}

// PackVertices serializes vertices into little-endian bytes, VertexStride
// bytes per vertex.
func PackVertices(vertices []Vertex) []byte {
	buf := make([]byte, len(vertices)*VertexStride)
	off := 0
	put := func(v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}
	for i := range vertices {
		v := &vertices[i]
		put(v.Position[0])
		put(v.Position[1])
		put(v.Position[2])
		put(v.Color[0])
		put(v.Color[1])
		put(v.Color[2])
		put(v.Color[3])
		put(v.TexCoord[0])
		put(v.TexCoord[1])
	}
	return buf
}

// PackIndices serializes uint32 indices into little-endian bytes.
func PackIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}
