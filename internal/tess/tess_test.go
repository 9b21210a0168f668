package tess

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/p5/render"
)

var (
	white = [4]float32{1, 1, 1, 1}
	black = [4]float32{0, 0, 0, 1}
	red   = [4]float32{1, 0, 0, 1}
)

func defaultState() *State {
	return &State{
		AspectRatio:   1,
		EllipseMode:   AnchorCenter,
		RectMode:      AnchorCorner,
		StrokeEnabled: true,
		Fill:          [][4]float32{white},
		Stroke:        [][4]float32{black},
	}
}

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-5 }

func TestEllipse(t *testing.T) {
	g, err := Ellipse(defaultState(), []float64{0}, []float64{0}, []float64{0}, []float64{0.5}, []float64{0.5})
	if err != nil {
		t.Fatal(err)
	}
	if got := len(g.Fill.Vertices); got != 202 {
		t.Errorf("fill vertices = %d, want 202", got)
	}
	if got := len(g.Stroke.Vertices); got != 200 {
		t.Errorf("stroke vertices = %d, want 200", got)
	}
	if g.Fill.Rule.Primitive != render.PrimitiveTriangleFan || g.Fill.Rule.HasBuffer() {
		t.Errorf("fill rule = %+v, want unindexed fan", g.Fill.Rule)
	}
	if g.Stroke.Rule.Primitive != render.PrimitiveLineLoop || g.Stroke.Rule.HasBuffer() {
		t.Errorf("stroke rule = %+v, want unindexed loop", g.Stroke.Rule)
	}

	// center first, radius 0.25 (CENTER halves the width)
	if c := g.Fill.Vertices[0].Position; c != [3]float32{0, 0, 0} {
		t.Errorf("center = %v", c)
	}
	first, last := g.Fill.Vertices[1].Position, g.Fill.Vertices[201].Position
	if !near(first[0], 0.25) || !near(first[1], 0) {
		t.Errorf("first perimeter point = %v, want (0.25, 0)", first)
	}
	if !near(first[0], last[0]) || !near(first[1], last[1]) {
		t.Errorf("perimeter does not close: first %v last %v", first, last)
	}
	for i, v := range g.Fill.Vertices {
		if v.Color != white {
			t.Fatalf("fill vertex %d color = %v", i, v.Color)
		}
	}
	for i, v := range g.Stroke.Vertices {
		if v.Color != black {
			t.Fatalf("stroke vertex %d color = %v", i, v.Color)
		}
	}
}

func TestEllipseInstances(t *testing.T) {
	xs := []float64{0, 0.5, -0.5}
	g, err := Ellipse(defaultState(), xs, xs, nil, []float64{1, 1, 1}, []float64{1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if got := len(g.Fill.Vertices); got != 3*202 {
		t.Errorf("fill vertices = %d, want %d", got, 3*202)
	}
	if got := g.Fill.Rule.Segments; len(got) != 3 || got[2] != 202 {
		t.Errorf("fill segments = %v", got)
	}
	if z := g.Fill.Vertices[2*202].Position[2]; z != 2*Epsilon {
		t.Errorf("instance 2 z = %v, want %v", z, 2*Epsilon)
	}
}

func TestEllipseModes(t *testing.T) {
	tests := []struct {
		mode           AnchorMode
		x, y, w, h     float64
		cx, cy, rx, ry float64
	}{
		{AnchorCenter, 0, 0, 1, 0.5, 0, 0, 0.5, 0.25},
		{AnchorRadius, 0.1, 0.2, 0.3, 0.4, 0.1, 0.2, 0.3, 0.4},
		{AnchorCorner, -1, 1, 1, 0.5, -0.5, 0.75, 0.5, 0.25},
		{AnchorCorners, -1, -1, 1, 1, 0, 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			s := defaultState()
			s.EllipseMode = tt.mode
			g, err := Ellipse(s, []float64{tt.x}, []float64{tt.y}, nil, []float64{tt.w}, []float64{tt.h})
			if err != nil {
				t.Fatal(err)
			}
			c := g.Fill.Vertices[0].Position
			if !near(c[0], float32(tt.cx)) || !near(c[1], float32(tt.cy)) {
				t.Errorf("center = %v, want (%v, %v)", c, tt.cx, tt.cy)
			}
			p := g.Fill.Vertices[1].Position
			if !near(p[0]-c[0], float32(tt.rx)) {
				t.Errorf("x radius = %v, want %v", p[0]-c[0], tt.rx)
			}
			top := g.Fill.Vertices[1+Slices/4].Position
			if !near(top[1]-c[1], float32(tt.ry)) {
				t.Errorf("y radius = %v, want %v", top[1]-c[1], tt.ry)
			}
		})
	}
}

func TestArc(t *testing.T) {
	g, err := Arc(defaultState(), []float64{0}, []float64{0}, nil, []float64{2}, []float64{2}, []float64{0}, []float64{math.Pi / 2})
	if err != nil {
		t.Fatal(err)
	}
	if got := len(g.Fill.Vertices); got != 202 {
		t.Errorf("fill vertices = %d, want 202", got)
	}
	if got := len(g.Stroke.Vertices); got != 201 {
		t.Errorf("stroke vertices = %d, want 201", got)
	}
	if g.Stroke.Rule.Primitive != render.PrimitiveLineStrip {
		t.Errorf("stroke primitive = %v, want LineStrip", g.Stroke.Rule.Primitive)
	}
	end := g.Stroke.Vertices[200].Position
	if !near(end[0], 0) || !near(end[1], 1) {
		t.Errorf("arc end = %v, want (0, 1)", end)
	}
}

func TestRect(t *testing.T) {
	g, err := Rect(defaultState(), []float64{-0.5}, []float64{0.5}, nil, []float64{1}, []float64{1})
	if err != nil {
		t.Fatal(err)
	}
	if got := len(g.Fill.Vertices); got != 4 {
		t.Fatalf("fill vertices = %d, want 4", got)
	}
	want := []uint32{0, 1, 2, 2, 3, 0}
	if len(g.Fill.Rule.Indices) != 6 {
		t.Fatalf("indices = %v", g.Fill.Rule.Indices)
	}
	for i := range want {
		if g.Fill.Rule.Indices[i] != want[i] {
			t.Errorf("indices = %v, want %v", g.Fill.Rule.Indices, want)
			break
		}
	}
	corners := [4][2]float32{{-0.5, 0.5}, {0.5, 0.5}, {0.5, -0.5}, {-0.5, -0.5}}
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	for i, v := range g.Fill.Vertices {
		if !near(v.Position[0], corners[i][0]) || !near(v.Position[1], corners[i][1]) {
			t.Errorf("corner %d = %v, want %v", i, v.Position, corners[i])
		}
		if v.TexCoord != uvs[i] {
			t.Errorf("texcoord %d = %v, want %v", i, v.TexCoord, uvs[i])
		}
	}
	if g.Stroke.Rule.Primitive != render.PrimitiveLineLoop || g.Stroke.Rule.HasBuffer() {
		t.Errorf("stroke rule = %+v", g.Stroke.Rule)
	}
}

func TestRectIndicesPerInstance(t *testing.T) {
	v := []float64{0, 0, 0}
	g, err := Rect(defaultState(), v, v, nil, []float64{1, 1, 1}, []float64{1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	idx := g.Fill.Rule.Indices
	if len(idx) != 18 {
		t.Fatalf("len(indices) = %d, want 18", len(idx))
	}
	if idx[12] != 8 || idx[16] != 11 {
		t.Errorf("third instance indices = %v", idx[12:])
	}
}

func TestRectModes(t *testing.T) {
	tests := []struct {
		mode       AnchorMode
		x, y, w, h float64
		left, top  float32
	}{
		{AnchorCorner, 0, 0, 1, 1, 0, 0},
		{AnchorCenter, 0, 0, 1, 1, -0.5, 0.5},
		{AnchorRadius, 0, 0, 0.5, 0.5, -0.5, 0.5},
		{AnchorCorners, -0.5, 0.5, 0.5, -0.5, -0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			s := defaultState()
			s.RectMode = tt.mode
			g, err := Rect(s, []float64{tt.x}, []float64{tt.y}, nil, []float64{tt.w}, []float64{tt.h})
			if err != nil {
				t.Fatal(err)
			}
			p := g.Fill.Vertices[0].Position
			if !near(p[0], tt.left) || !near(p[1], tt.top) {
				t.Errorf("top-left = %v, want (%v, %v)", p, tt.left, tt.top)
			}
		})
	}
}

func TestAspectCorrection(t *testing.T) {
	tests := []struct {
		name   string
		aspect float64
		x, y   float32
	}{
		{"wide divides x", 2, 0.5, 1},
		{"tall multiplies y", 0.5, 1, 0.5},
		{"square unchanged", 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := defaultState()
			s.PreserveAspect = true
			s.AspectRatio = tt.aspect
			g, err := Point(s, []float64{1}, []float64{1}, nil)
			if err != nil {
				t.Fatal(err)
			}
			p := g.Stroke.Vertices[0].Position
			if !near(p[0], tt.x) || !near(p[1], tt.y) {
				t.Errorf("point = %v, want (%v, %v)", p, tt.x, tt.y)
			}
		})
	}
}

func TestQuad(t *testing.T) {
	one := []float64{1}
	zero := []float64{0}
	g, err := Quad(defaultState(), zero, zero, one, zero, one, one, zero, one, []float64{0.25})
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Fill.Vertices) != 4 || len(g.Fill.Rule.Indices) != 6 {
		t.Fatalf("quad = %d vertices, %d indices", len(g.Fill.Vertices), len(g.Fill.Rule.Indices))
	}
	if z := g.Fill.Vertices[3].Position[2]; z != 0.25 {
		t.Errorf("explicit z = %v, want 0.25", z)
	}
	if uv := g.Fill.Vertices[2].TexCoord; uv != [2]float32{1, 1} {
		t.Errorf("third texcoord = %v", uv)
	}
}

func TestTriangle(t *testing.T) {
	v := []float64{0, 1}
	g, err := Triangle(defaultState(), v, v, v, v, v, v, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Fill.Vertices) != 6 {
		t.Errorf("fill vertices = %d, want 6", len(g.Fill.Vertices))
	}
	if g.Fill.Rule.Primitive != render.PrimitiveTriangleList || g.Fill.Rule.HasBuffer() {
		t.Errorf("fill rule = %+v", g.Fill.Rule)
	}
	if g.Stroke.Rule.Primitive != render.PrimitiveLineLoop {
		t.Errorf("stroke primitive = %v", g.Stroke.Rule.Primitive)
	}
}

func TestLineAndPointNeedStroke(t *testing.T) {
	s := defaultState()
	s.StrokeEnabled = false
	v := []float64{0}

	g, err := Line(s, v, v, v, v, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !g.Fill.Empty() || !g.Stroke.Empty() {
		t.Error("line without stroke produced vertices")
	}
	g, err = Point(s, v, v, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !g.Fill.Empty() || !g.Stroke.Empty() {
		t.Error("point without stroke produced vertices")
	}

	s.StrokeEnabled = true
	g, err = Line(s, v, v, []float64{1}, []float64{1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Stroke.Vertices) != 2 || g.Stroke.Rule.Primitive != render.PrimitiveLineList {
		t.Errorf("line stroke = %d vertices, %v", len(g.Stroke.Vertices), g.Stroke.Rule.Primitive)
	}
	if g.Fill.Vertices[0].Color != black {
		t.Errorf("line fill color = %v, want stroke color", g.Fill.Vertices[0].Color)
	}
}

func TestCube(t *testing.T) {
	g, err := Cube(defaultState(), []float64{0.5, 1})
	if err != nil {
		t.Fatal(err)
	}
	if got := len(g.Fill.Vertices); got != 2*CubeVertices {
		t.Errorf("fill vertices = %d, want %d", got, 2*CubeVertices)
	}
	if p := g.Fill.Vertices[0].Position; p != [3]float32{-0.5, -0.5, -0.5} {
		t.Errorf("first vertex = %v", p)
	}
	if p := g.Fill.Vertices[CubeVertices].Position; p != [3]float32{-1, -1, -1 + Epsilon} {
		t.Errorf("second cube first vertex = %v", p)
	}
}

func TestCubeZBias(t *testing.T) {
	g, err := Cube(defaultState(), []float64{1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < 3; i++ {
		prev := g.Fill.Vertices[(i-1)*CubeVertices].Position[2]
		cur := g.Fill.Vertices[i*CubeVertices].Position[2]
		if cur <= prev {
			t.Errorf("instance %d z = %v, not above instance %d z = %v", i, cur, i-1, prev)
		}
	}
}

func TestPerInstanceColors(t *testing.T) {
	s := defaultState()
	s.Fill = [][4]float32{red, white}
	v := []float64{0, 0, 0}
	g, err := Rect(s, v, v, nil, []float64{1, 1, 1}, []float64{1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	want := [][4]float32{red, white, red}
	for i := 0; i < 3; i++ {
		if got := g.Fill.Vertices[4*i+3].Color; got != want[i] {
			t.Errorf("instance %d color = %v, want %v", i, got, want[i])
		}
	}
}

func TestParamLength(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"ellipse", func() error {
			_, err := Ellipse(defaultState(), []float64{0, 1}, []float64{0}, nil, []float64{1}, []float64{1})
			return err
		}},
		{"rect z", func() error {
			_, err := Rect(defaultState(), []float64{0}, []float64{0}, []float64{0, 0}, []float64{1}, []float64{1})
			return err
		}},
		{"line", func() error {
			_, err := Line(defaultState(), []float64{0}, nil, []float64{0}, []float64{0}, nil)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrParamLength) {
				t.Errorf("error = %v, want ErrParamLength", err)
			}
		})
	}
}

func TestZeroInstances(t *testing.T) {
	g, err := Ellipse(defaultState(), nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !g.Fill.Empty() || !g.Stroke.Empty() {
		t.Error("zero instances produced vertices")
	}
}
