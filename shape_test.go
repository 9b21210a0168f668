package p5

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gogpu/p5/render"
	"github.com/gogpu/p5/render/rendertest"
)

func one(v float64) []float64 { return []float64{v} }

func TestEllipseShape(t *testing.T) {
	s := newTestScreen(t, 100, 100, WithPreserveAspectRatio(true))
	sh, err := s.Ellipse(one(0), one(0), nil, one(0.3), one(0.5))
	if err != nil {
		t.Fatalf("Ellipse() = %v", err)
	}
	defer sh.Destroy()

	if sh.FillVertices() != 202 {
		t.Errorf("FillVertices() = %d, want 202", sh.FillVertices())
	}
	if sh.FillRule().Primitive != render.PrimitiveTriangleFan || sh.FillRule().HasBuffer() {
		t.Errorf("FillRule() = %+v, want an unindexed fan", sh.FillRule())
	}
	if sh.StrokeVertices() != 200 {
		t.Errorf("StrokeVertices() = %d, want 200", sh.StrokeVertices())
	}
	if sh.StrokeRule().Primitive != render.PrimitiveLineLoop {
		t.Errorf("StrokeRule().Primitive = %v, want LineLoop", sh.StrokeRule().Primitive)
	}
	if sh.Label() != "ellipse" {
		t.Errorf("Label() = %q", sh.Label())
	}
}

func TestRectShape(t *testing.T) {
	s := newTestScreen(t, 100, 100)
	dev := recorder(s)
	before := len(dev.Buffers)

	sh, err := s.Rect(one(-0.6), one(-0.4), nil, one(0.2), one(0.5))
	if err != nil {
		t.Fatalf("Rect() = %v", err)
	}
	defer sh.Destroy()

	if sh.FillVertices() != 4 {
		t.Errorf("FillVertices() = %d, want 4", sh.FillVertices())
	}
	if got := sh.FillRule().Indices; !reflect.DeepEqual(got, []uint32{0, 1, 2, 2, 3, 0}) {
		t.Errorf("fill indices = %v", got)
	}

	// Fill vertices, fill indices, stroke vertices.
	created := dev.Buffers[before:]
	if len(created) != 3 {
		t.Fatalf("created %d buffers, want 3", len(created))
	}
	if created[0].Label != "rect-fill" || created[1].Label != "rect-fill" || created[2].Label != "rect-stroke" {
		t.Errorf("buffer labels = %q %q %q", created[0].Label, created[1].Label, created[2].Label)
	}
	if !reflect.DeepEqual(created[1].Indices, []uint32{0, 1, 2, 2, 3, 0}) {
		t.Errorf("uploaded indices = %v", created[1].Indices)
	}
	if got := created[0].Vertices[0].Position; got != [3]float32{-0.6, -0.4, 0} {
		t.Errorf("first corner = %v", got)
	}
}

func TestShapeInstanceColors(t *testing.T) {
	s := newTestScreen(t, 10, 10)
	dev := recorder(s)
	red, green := RGB(1, 0, 0), RGB(0, 1, 0)
	if err := s.Fill(red, green); err != nil {
		t.Fatal(err)
	}
	before := len(dev.Buffers)
	sh, err := s.Rect([]float64{0, 0.5}, []float64{0, 0}, nil, []float64{0.1, 0.1}, []float64{0.1, 0.1})
	if err != nil {
		t.Fatal(err)
	}
	defer sh.Destroy()

	verts := dev.Buffers[before].Vertices
	if verts[0].Color != red.Array() || verts[4].Color != green.Array() {
		t.Errorf("instance colors = %v, %v", verts[0].Color, verts[4].Color)
	}
	if verts[4].Position[2] <= verts[0].Position[2] {
		t.Errorf("z bias not increasing: %v then %v", verts[0].Position[2], verts[4].Position[2])
	}
}

func TestShapeConstructors(t *testing.T) {
	s := newTestScreen(t, 10, 10)
	tests := []struct {
		name         string
		build        func() (*Shape, error)
		fill, stroke int
	}{
		{"arc", func() (*Shape, error) {
			return s.Arc(one(0), one(0), nil, one(1), one(1), one(0), one(1))
		}, 202, 201},
		{"quad", func() (*Shape, error) {
			return s.Quad(one(0), one(0), one(1), one(0), one(1), one(1), one(0), one(1), nil)
		}, 4, 4},
		{"triangle", func() (*Shape, error) {
			return s.Triangle(one(0), one(0), one(1), one(0), one(0), one(1), nil)
		}, 3, 3},
		{"line", func() (*Shape, error) {
			return s.Line(one(0), one(0), one(1), one(1), nil)
		}, 2, 2},
		{"point", func() (*Shape, error) {
			return s.Point([]float64{0, 1}, []float64{0, 1}, nil)
		}, 2, 2},
		{"cube", func() (*Shape, error) {
			return s.Cube([]float64{0.5, 0.25})
		}, 72, 72},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh, err := tt.build()
			if err != nil {
				t.Fatalf("build = %v", err)
			}
			defer sh.Destroy()
			if sh.FillVertices() != tt.fill || sh.StrokeVertices() != tt.stroke {
				t.Errorf("vertices = %d/%d, want %d/%d", sh.FillVertices(), sh.StrokeVertices(), tt.fill, tt.stroke)
			}
		})
	}
}

func TestLineWithoutStrokeIsEmpty(t *testing.T) {
	s := newTestScreen(t, 10, 10)
	dev := recorder(s)
	s.StrokeOff()
	before := len(dev.Buffers)

	sh, err := s.Line(one(0), one(0), one(1), one(1), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer sh.Destroy()
	if sh.FillVertices() != 0 || sh.StrokeVertices() != 0 {
		t.Errorf("vertices = %d/%d, want empty", sh.FillVertices(), sh.StrokeVertices())
	}
	if len(dev.Buffers) != before {
		t.Errorf("empty shape created %d buffers", len(dev.Buffers)-before)
	}
	if err := s.Draw(sh); err != nil {
		t.Errorf("Draw(empty) = %v", err)
	}
	if len(dev.Draws) != 0 {
		t.Errorf("empty shape issued %d draws", len(dev.Draws))
	}
}

func TestShapeErrors(t *testing.T) {
	t.Run("param length", func(t *testing.T) {
		s := newTestScreen(t, 10, 10)
		_, err := s.Rect([]float64{0, 1}, one(0), nil, one(1), one(1))
		if !errors.Is(err, ErrParamLength) {
			t.Errorf("Rect() = %v, want ErrParamLength", err)
		}
	})

	t.Run("vertex buffer", func(t *testing.T) {
		s := newTestScreen(t, 10, 10)
		dev := recorder(s)
		dev.FailOn(rendertest.OpVertexBuffer, nil)
		_, err := s.Ellipse(one(0), one(0), nil, one(1), one(1))
		if !errors.Is(err, ErrVertexBuffer) || !errors.Is(err, rendertest.ErrInjected) {
			t.Errorf("Ellipse() = %v, want ErrVertexBuffer wrapping the device error", err)
		}
	})

	t.Run("index buffer releases partial shape", func(t *testing.T) {
		s := newTestScreen(t, 10, 10)
		dev := recorder(s)
		live := dev.LiveBuffers()
		dev.FailOn(rendertest.OpIndexBuffer, nil)
		_, err := s.Rect(one(0), one(0), nil, one(1), one(1))
		if !errors.Is(err, ErrIndexBuffer) {
			t.Errorf("Rect() = %v, want ErrIndexBuffer", err)
		}
		if dev.LiveBuffers() != live {
			t.Errorf("live buffers = %d, want %d", dev.LiveBuffers(), live)
		}
	})

}

func TestShapeDestroyOnce(t *testing.T) {
	s := newTestScreen(t, 10, 10)
	dev := recorder(s)
	before := len(dev.Buffers)

	sh, err := s.Rect(one(0), one(0), nil, one(1), one(1))
	if err != nil {
		t.Fatal(err)
	}
	tex := &rendertest.Texture{W: 1, H: 1}
	sh.AttachTexture(tex)
	if sh.Texture() != render.Texture(tex) {
		t.Error("Texture() did not return the attached texture")
	}

	sh.Destroy()
	sh.Destroy()
	if !sh.Destroyed() {
		t.Error("Destroyed() = false")
	}
	for _, b := range dev.Buffers[before:] {
		if b.Destroys != 1 {
			t.Errorf("buffer %q destroyed %d times, want 1", b.Label, b.Destroys)
		}
	}
	if tex.Destroyed {
		t.Error("Destroy released the borrowed texture")
	}
	if err := s.Draw(sh); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Draw(destroyed) = %v, want ErrDestroyed", err)
	}
}

func TestShapeDeterminism(t *testing.T) {
	s := newTestScreen(t, 10, 10)
	dev := recorder(s)

	build := func() []render.Vertex {
		before := len(dev.Buffers)
		sh, err := s.Ellipse([]float64{0, 0.2}, []float64{0, 0.1}, nil, []float64{0.3, 0.2}, []float64{0.5, 0.1})
		if err != nil {
			t.Fatal(err)
		}
		defer sh.Destroy()
		return dev.Buffers[before].Vertices
	}
	if a, b := build(), build(); !reflect.DeepEqual(a, b) {
		t.Error("building the same ellipse twice gave different vertices")
	}
}
