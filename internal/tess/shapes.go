package tess

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/gogpu/p5/render"
)

// ellipseBox resolves an ellipse/arc anchor into center and radii.
func ellipseBox(mode AnchorMode, x, y, w, h float64) (cx, cy, rx, ry float64) {
	switch mode {
	case AnchorCenter:
		return x, y, w / 2, h / 2
	case AnchorCorner:
		return x + w/2, y - h/2, w / 2, h / 2
	case AnchorCorners:
		return (x + w) / 2, (y + h) / 2, math.Abs(w-x) / 2, math.Abs(h-y) / 2
	default: // AnchorRadius
		return x, y, w, h
	}
}

// rectBox resolves a rect anchor into its top-left corner and size.
// y grows upward, so the rect extends down from top.
func rectBox(mode AnchorMode, x, y, w, h float64) (left, top, width, height float64) {
	switch mode {
	case AnchorCenter:
		return x - w/2, y + h/2, w, h
	case AnchorRadius:
		return x - w, y + h, 2 * w, 2 * h
	case AnchorCorners:
		return x, y, w - x, y - h
	default: // AnchorCorner
		return x, y, w, h
	}
}

// perimeter appends Slices+1 points from start to start+sweep.
func perimeter(dst []render.Vertex, cx, cy, rx, ry float64, z float32, start, sweep float32) []render.Vertex {
	for k := 0; k <= Slices; k++ {
		sin, cos := math32.Sincos(start + sweep*float32(k)/Slices)
		dst = append(dst, vtx(float64(cos)*rx+cx, float64(sin)*ry+cy, z, 0, 0))
	}
	return dst
}

// Ellipse tessellates ellipses. Fill is a fan of the center plus Slices+1
// perimeter points (the last one closes onto the first); stroke is a loop
// of the first Slices perimeter points.
func Ellipse(s *State, x, y, z, w, h []float64) (Geometry, error) {
	n, err := count("ellipse", z, x, y, w, h)
	if err != nil {
		return Geometry{}, err
	}
	sx, sy := s.scale()
	const fillPer, strokePer = Slices + 2, Slices

	fill := make([]render.Vertex, 0, n*fillPer)
	stroke := make([]render.Vertex, 0, n*strokePer)
	for i := 0; i < n; i++ {
		cx, cy, rx, ry := ellipseBox(s.EllipseMode, x[i]*sx, y[i]*sy, w[i]*sx, h[i]*sy)
		zi := depth(z, i)
		fill = append(fill, vtx(cx, cy, zi, 0, 0))
		start := len(fill)
		fill = perimeter(fill, cx, cy, rx, ry, zi, 0, 2*math32.Pi)
		stroke = append(stroke, fill[start:start+strokePer]...)
	}

	return Geometry{
		Fill: Mesh{
			Vertices: paint(fill, fillPer, s.Fill),
			Rule:     render.IndexRule{Primitive: render.PrimitiveTriangleFan, Segments: segments(n, fillPer)},
		},
		Stroke: Mesh{
			Vertices: paint(stroke, strokePer, s.Stroke),
			Rule:     render.IndexRule{Primitive: render.PrimitiveLineLoop, Segments: segments(n, strokePer)},
		},
	}, nil
}

// Arc tessellates elliptical arcs from start to stop radians. Fill is a fan
// of the center plus Slices+1 points; stroke is an open strip through the
// same Slices+1 points.
func Arc(s *State, x, y, z, w, h, start, stop []float64) (Geometry, error) {
	n, err := count("arc", z, x, y, w, h, start, stop)
	if err != nil {
		return Geometry{}, err
	}
	sx, sy := s.scale()
	const fillPer, strokePer = Slices + 2, Slices + 1

	fill := make([]render.Vertex, 0, n*fillPer)
	stroke := make([]render.Vertex, 0, n*strokePer)
	for i := 0; i < n; i++ {
		cx, cy, rx, ry := ellipseBox(s.EllipseMode, x[i]*sx, y[i]*sy, w[i]*sx, h[i]*sy)
		zi := depth(z, i)
		fill = append(fill, vtx(cx, cy, zi, 0, 0))
		first := len(fill)
		fill = perimeter(fill, cx, cy, rx, ry, zi, float32(start[i]), float32(stop[i]-start[i]))
		stroke = append(stroke, fill[first:]...)
	}

	return Geometry{
		Fill: Mesh{
			Vertices: paint(fill, fillPer, s.Fill),
			Rule:     render.IndexRule{Primitive: render.PrimitiveTriangleFan, Segments: segments(n, fillPer)},
		},
		Stroke: Mesh{
			Vertices: paint(stroke, strokePer, s.Stroke),
			Rule:     render.IndexRule{Primitive: render.PrimitiveLineStrip, Segments: segments(n, strokePer)},
		},
	}, nil
}

// Rect tessellates axis-aligned rectangles as indexed quads.
func Rect(s *State, x, y, z, w, h []float64) (Geometry, error) {
	n, err := count("rect", z, x, y, w, h)
	if err != nil {
		return Geometry{}, err
	}
	sx, sy := s.scale()

	verts := make([]render.Vertex, 0, 4*n)
	for i := 0; i < n; i++ {
		left, top, width, height := rectBox(s.RectMode, x[i]*sx, y[i]*sy, w[i]*sx, h[i]*sy)
		zi := depth(z, i)
		verts = append(verts,
			vtx(left, top, zi, 0, 1),
			vtx(left+width, top, zi, 1, 1),
			vtx(left+width, top-height, zi, 1, 0),
			vtx(left, top-height, zi, 0, 0),
		)
	}
	return quadGeometry(s, verts, n), nil
}

// Quad tessellates arbitrary quadrilaterals given by four corners in order.
func Quad(s *State, x1, y1, x2, y2, x3, y3, x4, y4, z []float64) (Geometry, error) {
	n, err := count("quad", z, x1, y1, x2, y2, x3, y3, x4, y4)
	if err != nil {
		return Geometry{}, err
	}
	sx, sy := s.scale()

	verts := make([]render.Vertex, 0, 4*n)
	for i := 0; i < n; i++ {
		zi := depth(z, i)
		verts = append(verts,
			vtx(x1[i]*sx, y1[i]*sy, zi, 0, 0),
			vtx(x2[i]*sx, y2[i]*sy, zi, 1, 0),
			vtx(x3[i]*sx, y3[i]*sy, zi, 1, 1),
			vtx(x4[i]*sx, y4[i]*sy, zi, 0, 1),
		)
	}
	return quadGeometry(s, verts, n), nil
}

func quadGeometry(s *State, verts []render.Vertex, n int) Geometry {
	return Geometry{
		Fill: Mesh{
			Vertices: paint(verts, 4, s.Fill),
			Rule:     render.IndexRule{Primitive: render.PrimitiveTriangleList, Indices: quadIndices(n)},
		},
		Stroke: Mesh{
			Vertices: paint(verts, 4, s.Stroke),
			Rule:     render.IndexRule{Primitive: render.PrimitiveLineLoop, Segments: segments(n, 4)},
		},
	}
}

// Triangle tessellates triangles.
func Triangle(s *State, x1, y1, x2, y2, x3, y3, z []float64) (Geometry, error) {
	n, err := count("triangle", z, x1, y1, x2, y2, x3, y3)
	if err != nil {
		return Geometry{}, err
	}
	sx, sy := s.scale()

	verts := make([]render.Vertex, 0, 3*n)
	for i := 0; i < n; i++ {
		zi := depth(z, i)
		verts = append(verts,
			vtx(x1[i]*sx, y1[i]*sy, zi, 0, 0),
			vtx(x2[i]*sx, y2[i]*sy, zi, 1, 0),
			vtx(x3[i]*sx, y3[i]*sy, zi, 1, 1),
		)
	}
	return Geometry{
		Fill: Mesh{
			Vertices: paint(verts, 3, s.Fill),
			Rule:     render.IndexRule{Primitive: render.PrimitiveTriangleList, Segments: segments(n, 3)},
		},
		Stroke: Mesh{
			Vertices: paint(verts, 3, s.Stroke),
			Rule:     render.IndexRule{Primitive: render.PrimitiveLineLoop, Segments: segments(n, 3)},
		},
	}, nil
}

// Line tessellates line segments. Lines exist only as strokes: with stroke
// disabled both meshes are empty. Both meshes carry the stroke color.
func Line(s *State, x1, y1, x2, y2, z []float64) (Geometry, error) {
	n, err := count("line", z, x1, y1, x2, y2)
	if err != nil {
		return Geometry{}, err
	}
	rule := render.IndexRule{Primitive: render.PrimitiveLineList}
	if !s.StrokeEnabled {
		return Geometry{Fill: Mesh{Rule: rule}, Stroke: Mesh{Rule: rule}}, nil
	}
	sx, sy := s.scale()

	verts := make([]render.Vertex, 0, 2*n)
	for i := 0; i < n; i++ {
		zi := depth(z, i)
		verts = append(verts,
			vtx(x1[i]*sx, y1[i]*sy, zi, 0, 0),
			vtx(x2[i]*sx, y2[i]*sy, zi, 0, 0),
		)
	}
	painted := paint(verts, 2, s.Stroke)
	return Geometry{
		Fill:   Mesh{Vertices: painted, Rule: rule},
		Stroke: Mesh{Vertices: append([]render.Vertex(nil), painted...), Rule: rule},
	}, nil
}

// Point tessellates points. Like lines, points exist only when stroke is
// enabled.
func Point(s *State, x, y, z []float64) (Geometry, error) {
	n, err := count("point", z, x, y)
	if err != nil {
		return Geometry{}, err
	}
	rule := render.IndexRule{Primitive: render.PrimitivePointList}
	if !s.StrokeEnabled {
		return Geometry{Fill: Mesh{Rule: rule}, Stroke: Mesh{Rule: rule}}, nil
	}
	sx, sy := s.scale()

	verts := make([]render.Vertex, 0, n)
	for i := 0; i < n; i++ {
		verts = append(verts, vtx(x[i]*sx, y[i]*sy, depth(z, i), 0, 0))
	}
	painted := paint(verts, 1, s.Stroke)
	return Geometry{
		Fill:   Mesh{Vertices: painted, Rule: rule},
		Stroke: Mesh{Vertices: append([]render.Vertex(nil), painted...), Rule: rule},
	}, nil
}

// cubeTemplate is a unit cube (-1..1) as 12 triangles.
var cubeTemplate = [36][3]float32{
	{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1},
	{1, 1, -1}, {-1, -1, -1}, {-1, 1, -1},
	{1, -1, 1}, {-1, -1, -1}, {1, -1, -1},
	{1, 1, -1}, {1, -1, -1}, {-1, -1, -1},
	{-1, -1, -1}, {-1, 1, 1}, {-1, 1, -1},
	{1, -1, 1}, {-1, -1, 1}, {-1, -1, -1},
	{-1, 1, 1}, {-1, -1, 1}, {1, -1, 1},
	{1, 1, 1}, {1, -1, -1}, {1, 1, -1},
	{1, -1, -1}, {1, 1, 1}, {1, -1, 1},
	{1, 1, 1}, {1, 1, -1}, {-1, 1, -1},
	{1, 1, 1}, {-1, 1, -1}, {-1, 1, 1},
	{1, 1, 1}, {-1, 1, 1}, {1, -1, 1},
}

// CubeVertices is the vertex count of one cube instance.
const CubeVertices = len(cubeTemplate)

// Cube tessellates cubes centered on the origin, one per size. The size is
// aspect corrected per axis and later instances get the epsilon z bias.
func Cube(s *State, size []float64) (Geometry, error) {
	n := len(size)
	sx, sy := s.scale()

	verts := make([]render.Vertex, 0, n*CubeVertices)
	for i := 0; i < n; i++ {
		k := float32(size[i])
		bias := depth(nil, i)
		for _, p := range cubeTemplate {
			verts = append(verts, render.Vertex{
				Position: [3]float32{p[0] * k * float32(sx), p[1] * k * float32(sy), p[2]*k + bias},
			})
		}
	}
	return Geometry{
		Fill: Mesh{
			Vertices: paint(verts, CubeVertices, s.Fill),
			Rule:     render.IndexRule{Primitive: render.PrimitiveTriangleList, Segments: segments(n, CubeVertices)},
		},
		Stroke: Mesh{
			Vertices: paint(verts, CubeVertices, s.Stroke),
			Rule:     render.IndexRule{Primitive: render.PrimitiveLineLoop, Segments: segments(n, CubeVertices)},
		},
	}, nil
}
