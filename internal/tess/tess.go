// Package tess turns shape parameters into vertex data.
//
// Every function takes parallel parameter slices, one entry per shape
// instance, and a read-only State snapshot, and returns fill and stroke
// meshes. Nothing here touches the GPU.
package tess

import (
	"errors"
	"fmt"

	"github.com/gogpu/p5/render"
)

// Epsilon is the float32 machine epsilon, used to push successive instances
// of one shape apart in depth.
const Epsilon float32 = 1.0 / (1 << 23)

// Slices is the number of perimeter segments of an ellipse or arc.
const Slices = 200

// ErrParamLength is returned when parallel parameter slices differ in length.
var ErrParamLength = errors.New("tess: parameter slices differ in length")

// AnchorMode selects how the position and size parameters of an ellipse,
// arc or rect are interpreted.
type AnchorMode uint8

const (
	// AnchorCorner: (x, y) is the top-left corner, (w, h) the size.
	AnchorCorner AnchorMode = iota
	// AnchorCorners: (x, y) and (w, h) are opposite corners.
	AnchorCorners
	// AnchorCenter: (x, y) is the center, (w, h) the size.
	AnchorCenter
	// AnchorRadius: (x, y) is the center, (w, h) the half extents.
	AnchorRadius
)

func (m AnchorMode) String() string {
	switch m {
	case AnchorCorner:
		return "CORNER"
	case AnchorCorners:
		return "CORNERS"
	case AnchorCenter:
		return "CENTER"
	case AnchorRadius:
		return "RADIUS"
	}
	return fmt.Sprintf("AnchorMode(%d)", uint8(m))
}

// State is the part of the render state tessellation reads.
type State struct {
	AspectRatio    float64
	PreserveAspect bool
	EllipseMode    AnchorMode
	RectMode       AnchorMode
	StrokeEnabled  bool

	// Fill and Stroke hold straight-alpha RGBA colors. With k colors,
	// instance i takes color i%k.
	Fill   [][4]float32
	Stroke [][4]float32
}

// Mesh is the vertex data of one pass.
type Mesh struct {
	Vertices []render.Vertex
	Rule     render.IndexRule
}

// Empty reports whether the mesh has nothing to draw.
func (m Mesh) Empty() bool { return len(m.Vertices) == 0 }

// Geometry is the fill and stroke meshes of a shape.
type Geometry struct {
	Fill   Mesh
	Stroke Mesh
}

// scale returns the per-axis aspect correction.
func (s *State) scale() (sx, sy float64) {
	if !s.PreserveAspect || s.AspectRatio == 1 || s.AspectRatio <= 0 {
		return 1, 1
	}
	if s.AspectRatio > 1 {
		return 1 / s.AspectRatio, 1
	}
	return 1, s.AspectRatio
}

// count checks that all slices have the same length. z may be nil.
func count(shape string, z []float64, params ...[]float64) (int, error) {
	n := 0
	for i, p := range params {
		if i == 0 {
			n = len(p)
		} else if len(p) != n {
			return 0, fmt.Errorf("%s: %w", shape, ErrParamLength)
		}
	}
	if z != nil && len(z) != n {
		return 0, fmt.Errorf("%s: z: %w", shape, ErrParamLength)
	}
	return n, nil
}

func depth(z []float64, i int) float32 {
	if z == nil {
		return Epsilon * float32(i)
	}
	return float32(z[i])
}

// paint returns a copy of template with instance colors applied. Each
// instance spans per vertices.
func paint(template []render.Vertex, per int, colors [][4]float32) []render.Vertex {
	out := make([]render.Vertex, len(template))
	copy(out, template)
	if len(colors) == 0 || per == 0 {
		return out
	}
	for i := range out {
		out[i].Color = colors[(i/per)%len(colors)]
	}
	return out
}

func segments(n, per int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = per
	}
	return s
}

// quadIndices returns [0,1,2,2,3,0] shifted by 4 per instance.
func quadIndices(n int) []uint32 {
	idx := make([]uint32, 0, 6*n)
	for i := 0; i < n; i++ {
		b := uint32(4 * i)
		idx = append(idx, b, b+1, b+2, b+2, b+3, b)
	}
	return idx
}

func vtx(x, y float64, z float32, u, v float32) render.Vertex {
	return render.Vertex{
		Position: [3]float32{float32(x), float32(y), z},
		TexCoord: [2]float32{u, v},
	}
}
