package p5

import (
	"fmt"

	"github.com/gogpu/p5/internal/tess"
	"github.com/gogpu/p5/render"
)

// mesh is the uploaded form of one tess.Mesh.
type mesh struct {
	vertices render.Buffer
	indices  render.Buffer
	rule     render.IndexRule
	count    int
}

func (m *mesh) empty() bool { return m.vertices == nil }

func (m *mesh) destroy() {
	if m.vertices != nil {
		m.vertices.Destroy()
		m.vertices = nil
	}
	if m.indices != nil {
		m.indices.Destroy()
		m.indices = nil
	}
}

// Shape is tessellated geometry uploaded to the device: a fill mesh and a
// stroke mesh, either of which may be empty.
//
// A Shape owns its buffers. A texture attached with AttachTexture is
// borrowed and must outlive every draw of the Shape.
type Shape struct {
	label     string
	fill      mesh
	stroke    mesh
	texture   render.Texture
	destroyed bool
}

// upload turns geometry into a Shape. Buffers created before a failure are
// released.
func upload(dev render.Device, label string, g tess.Geometry) (*Shape, error) {
	sh := &Shape{label: label}
	if err := uploadMesh(dev, label+"-fill", g.Fill, &sh.fill); err != nil {
		sh.Destroy()
		return nil, err
	}
	if err := uploadMesh(dev, label+"-stroke", g.Stroke, &sh.stroke); err != nil {
		sh.Destroy()
		return nil, err
	}
	return sh, nil
}

func uploadMesh(dev render.Device, label string, src tess.Mesh, dst *mesh) error {
	dst.rule = src.Rule
	dst.count = len(src.Vertices)
	if src.Empty() {
		return nil
	}
	vb, err := dev.CreateVertexBuffer(label, src.Vertices)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrVertexBuffer, label, err)
	}
	dst.vertices = vb
	if src.Rule.HasBuffer() {
		ib, err := dev.CreateIndexBuffer(label, src.Rule.Indices)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrIndexBuffer, label, err)
		}
		dst.indices = ib
	}
	return nil
}

// Label returns the debug label of the shape.
func (sh *Shape) Label() string { return sh.label }

// FillVertices returns the number of fill vertices.
func (sh *Shape) FillVertices() int { return sh.fill.count }

// StrokeVertices returns the number of stroke vertices.
func (sh *Shape) StrokeVertices() int { return sh.stroke.count }

// FillRule returns how the fill vertices are assembled.
func (sh *Shape) FillRule() render.IndexRule { return sh.fill.rule }

// StrokeRule returns how the stroke vertices are assembled.
func (sh *Shape) StrokeRule() render.IndexRule { return sh.stroke.rule }

// AttachTexture makes default draws of the shape sample tex. Pass nil to
// detach.
func (sh *Shape) AttachTexture(tex render.Texture) { sh.texture = tex }

// Texture returns the attached texture, or nil.
func (sh *Shape) Texture() render.Texture { return sh.texture }

// Destroy releases the shape's buffers. Later calls do nothing.
func (sh *Shape) Destroy() {
	if sh.destroyed {
		return
	}
	sh.destroyed = true
	sh.fill.destroy()
	sh.stroke.destroy()
	sh.texture = nil
}

// Destroyed reports whether Destroy was called.
func (sh *Shape) Destroyed() bool { return sh.destroyed }

// build tessellates with the current state and uploads the result.
func (s *Screen) build(label string, tessellate func(*tess.State) (tess.Geometry, error)) (*Shape, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	g, err := tessellate(s.state.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("p5: %w", err)
	}
	return upload(s.dev, label, g)
}

// Ellipse builds one ellipse per entry of the parallel slices, anchored by
// the ellipse mode. z may be nil.
func (s *Screen) Ellipse(x, y, z, w, h []float64) (*Shape, error) {
	return s.build("ellipse", func(st *tess.State) (tess.Geometry, error) {
		return tess.Ellipse(st, x, y, z, w, h)
	})
}

// Arc builds elliptical arcs from start to stop, in radians.
func (s *Screen) Arc(x, y, z, w, h, start, stop []float64) (*Shape, error) {
	return s.build("arc", func(st *tess.State) (tess.Geometry, error) {
		return tess.Arc(st, x, y, z, w, h, start, stop)
	})
}

// Rect builds rectangles anchored by the rect mode.
func (s *Screen) Rect(x, y, z, w, h []float64) (*Shape, error) {
	return s.build("rect", func(st *tess.State) (tess.Geometry, error) {
		return tess.Rect(st, x, y, z, w, h)
	})
}

// Quad builds quadrilaterals from four corners each.
func (s *Screen) Quad(x1, y1, x2, y2, x3, y3, x4, y4, z []float64) (*Shape, error) {
	return s.build("quad", func(st *tess.State) (tess.Geometry, error) {
		return tess.Quad(st, x1, y1, x2, y2, x3, y3, x4, y4, z)
	})
}

// Triangle builds triangles from three corners each.
func (s *Screen) Triangle(x1, y1, x2, y2, x3, y3, z []float64) (*Shape, error) {
	return s.build("triangle", func(st *tess.State) (tess.Geometry, error) {
		return tess.Triangle(st, x1, y1, x2, y2, x3, y3, z)
	})
}

// Line builds line segments. With stroke off the shape is empty.
func (s *Screen) Line(x1, y1, x2, y2, z []float64) (*Shape, error) {
	return s.build("line", func(st *tess.State) (tess.Geometry, error) {
		return tess.Line(st, x1, y1, x2, y2, z)
	})
}

// Point builds points. With stroke off the shape is empty.
func (s *Screen) Point(x, y, z []float64) (*Shape, error) {
	return s.build("point", func(st *tess.State) (tess.Geometry, error) {
		return tess.Point(st, x, y, z)
	})
}

// Cube builds axis-aligned cubes centered on the origin, one per size.
func (s *Screen) Cube(size []float64) (*Shape, error) {
	return s.build("cube", func(st *tess.State) (tess.Geometry, error) {
		return tess.Cube(st, size)
	})
}
