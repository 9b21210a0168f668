package render

import "github.com/gogpu/gputypes"

// Primitive is the primitive type a shape's vertices are assembled into.
type Primitive uint8

const (
	PrimitiveTriangleList Primitive = iota
	PrimitiveTriangleFan
	PrimitiveLineList
	PrimitiveLineStrip
	PrimitiveLineLoop
	PrimitivePointList
)

var primitiveNames = [...]string{
	PrimitiveTriangleList: "TriangleList",
	PrimitiveTriangleFan:  "TriangleFan",
	PrimitiveLineList:     "LineList",
	PrimitiveLineStrip:    "LineStrip",
	PrimitiveLineLoop:     "LineLoop",
	PrimitivePointList:    "PointList",
}

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "Unknown"
}

// IsStroke reports whether the primitive is a line or point type.
func (p Primitive) IsStroke() bool {
	switch p {
	case PrimitiveLineList, PrimitiveLineStrip, PrimitiveLineLoop, PrimitivePointList:
		return true
	}
	return false
}

// IndexRule describes how a mesh's vertices are assembled.
//
// With Indices set, the vertices are drawn indexed with Primitive.
// With Indices nil ("no buffer"), vertices are drawn in order and Segments
// gives the vertex count of each shape instance, so that fans, loops and
// strips of different instances are not joined together.
type IndexRule struct {
	Primitive Primitive
	Indices   []uint32
	Segments  []int
}

// HasBuffer reports whether the rule draws through an index buffer.
func (r IndexRule) HasBuffer() bool { return r.Indices != nil }

// Assembly is an IndexRule lowered onto WebGPU topologies.
type Assembly struct {
	Topology gputypes.PrimitiveTopology
	// Indices is nil when the vertices are drawn in order.
	Indices []uint32
}

// Assemble lowers rule onto a WebGPU topology for vertexCount vertices.
//
// Explicit index lists pass through. Fans become triangle lists, loops
// become line lists, and strips with more than one segment become line
// lists. Segments default to a single segment covering all vertices.
func Assemble(rule IndexRule, vertexCount int) Assembly {
	if rule.Indices != nil {
		return Assembly{Topology: topology(rule.Primitive), Indices: rule.Indices}
	}
	segments := rule.Segments
	if segments == nil {
		segments = []int{vertexCount}
	}

	switch rule.Primitive {
	case PrimitiveTriangleFan:
		return Assembly{Topology: gputypes.PrimitiveTopologyTriangleList, Indices: expandFan(segments)}
	case PrimitiveLineLoop:
		return Assembly{Topology: gputypes.PrimitiveTopologyLineList, Indices: expandLoop(segments)}
	case PrimitiveLineStrip:
		if len(segments) > 1 {
			return Assembly{Topology: gputypes.PrimitiveTopologyLineList, Indices: expandStrip(segments)}
		}
	}
	return Assembly{Topology: topology(rule.Primitive)}
}

func topology(p Primitive) gputypes.PrimitiveTopology {
	switch p {
	case PrimitiveLineList, PrimitiveLineLoop:
		return gputypes.PrimitiveTopologyLineList
	case PrimitiveLineStrip:
		return gputypes.PrimitiveTopologyLineStrip
	case PrimitivePointList:
		return gputypes.PrimitiveTopologyPointList
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

func expandFan(segments []int) []uint32 {
	out := []uint32{}
	base := uint32(0)
	for _, n := range segments {
		for i := 1; i+1 < n; i++ {
			out = append(out, base, base+uint32(i), base+uint32(i+1))
		}
		base += uint32(n)
	}
	return out
}

func expandLoop(segments []int) []uint32 {
	out := []uint32{}
	base := uint32(0)
	for _, n := range segments {
		if n >= 2 {
			for i := 0; i < n; i++ {
				out = append(out, base+uint32(i), base+uint32((i+1)%n))
			}
		}
		base += uint32(n)
	}
	return out
}

func expandStrip(segments []int) []uint32 {
	out := []uint32{}
	base := uint32(0)
	for _, n := range segments {
		for i := 0; i+1 < n; i++ {
			out = append(out, base+uint32(i), base+uint32(i+1))
		}
		base += uint32(n)
	}
	return out
}
