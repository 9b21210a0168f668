package p5

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestRenderStateDefaults(t *testing.T) {
	s := NewRenderState()

	if !s.FillEnabled() || !s.StrokeEnabled() {
		t.Error("fill and stroke should start enabled")
	}
	if got := s.FillColors(); !reflect.DeepEqual(got, []Color{White}) {
		t.Errorf("FillColors() = %v, want [white]", got)
	}
	if got := s.StrokeColors(); !reflect.DeepEqual(got, []Color{Black}) {
		t.Errorf("StrokeColors() = %v, want [black]", got)
	}
	if s.TintColor() != White {
		t.Errorf("TintColor() = %v, want white while tint is off", s.TintColor())
	}
	if s.BackgroundColor() != DefaultBackground {
		t.Errorf("BackgroundColor() = %v", s.BackgroundColor())
	}
	if s.ColorMode() != ColorRGB || s.BlendMode() != BlendBlend {
		t.Errorf("modes = %v, %v", s.ColorMode(), s.BlendMode())
	}
	ellipse, rect, shape, image := s.Modes()
	if ellipse != AnchorCenter || rect != AnchorCorner || shape != AnchorCorner || image != AnchorCorner {
		t.Errorf("anchor modes = %v %v %v %v", ellipse, rect, shape, image)
	}
	if s.Weight() != 2 || s.Smoothing() || s.PreserveAspectRatio() || s.AspectRatio() != 1 {
		t.Errorf("weight %v smooth %v preserve %v aspect %v",
			s.Weight(), s.Smoothing(), s.PreserveAspectRatio(), s.AspectRatio())
	}

	p := s.drawParams()
	if !p.DepthWrite || p.DepthCompare != gputypes.CompareFunctionAlways {
		t.Errorf("depth = %v/%v, want write with Always", p.DepthWrite, p.DepthCompare)
	}
	blend, _ := BlendBlend.State()
	if p.Blend != blend {
		t.Errorf("blend = %+v, want %+v", p.Blend, blend)
	}
}

func TestFillStickiness(t *testing.T) {
	s := NewRenderState()

	s.FillOff()
	if s.FillEnabled() {
		t.Fatal("FillOff() left fill enabled")
	}
	if got := s.FillColors(); !reflect.DeepEqual(got, []Color{White}) {
		t.Errorf("FillOff() changed the color to %v", got)
	}

	red := RGB(1, 0, 0)
	if err := s.Fill(red); err != nil {
		t.Fatalf("Fill() = %v", err)
	}
	if !s.FillEnabled() {
		t.Error("Fill() did not re-enable fill")
	}
	if got := s.FillColors(); !reflect.DeepEqual(got, []Color{red}) {
		t.Errorf("FillColors() = %v, want [%v]", got, red)
	}

	s.StrokeOff()
	if err := s.Stroke(red, White); err != nil {
		t.Fatalf("Stroke() = %v", err)
	}
	if !s.StrokeEnabled() || len(s.StrokeColors()) != 2 {
		t.Errorf("stroke enabled %v colors %v", s.StrokeEnabled(), s.StrokeColors())
	}
}

func TestFillColorsAreCopied(t *testing.T) {
	s := NewRenderState()
	colors := []Color{RGB(1, 0, 0)}
	if err := s.Fill(colors...); err != nil {
		t.Fatal(err)
	}
	colors[0] = Black
	if s.FillColors()[0] != RGB(1, 0, 0) {
		t.Error("Fill kept a reference to the caller's slice")
	}
}

func TestColorSetterErrors(t *testing.T) {
	s := NewRenderState()

	if err := s.Fill(); !errors.Is(err, ErrNoColor) {
		t.Errorf("Fill() = %v, want ErrNoColor", err)
	}
	if err := s.Stroke(); !errors.Is(err, ErrNoColor) {
		t.Errorf("Stroke() = %v, want ErrNoColor", err)
	}

	if err := s.SetColorMode(ColorHSB); err != nil {
		t.Fatalf("SetColorMode(HSB) = %v", err)
	}
	s.FillOff()
	tests := []struct {
		name string
		set  func() error
	}{
		{"fill", func() error { return s.Fill(RGB(1, 0, 0)) }},
		{"stroke", func() error { return s.Stroke(RGB(1, 0, 0)) }},
		{"tint", func() error { return s.Tint(RGB(1, 0, 0)) }},
		{"background", func() error { return s.SetBackground(RGB(1, 0, 0)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.set(); !errors.Is(err, ErrUnsupportedColorMode) {
				t.Errorf("error = %v, want ErrUnsupportedColorMode", err)
			}
		})
	}
	if s.FillEnabled() || s.FillColors()[0] != White || s.TintColor() != White || s.BackgroundColor() != DefaultBackground {
		t.Error("rejected setters changed the state")
	}

	if err := s.SetColorMode(ColorMode(9)); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("SetColorMode(9) = %v, want ErrUnsupportedMode", err)
	}
}

func TestTint(t *testing.T) {
	s := NewRenderState()
	c := RGBA(1, 0.5, 0.5, 0.5)
	if err := s.Tint(c); err != nil {
		t.Fatal(err)
	}
	if s.TintColor() != c {
		t.Errorf("TintColor() = %v, want %v", s.TintColor(), c)
	}
	s.NoTint()
	if s.TintColor() != White {
		t.Errorf("TintColor() after NoTint = %v, want white", s.TintColor())
	}
}

func TestAnchorSetters(t *testing.T) {
	s := NewRenderState()
	setters := map[string]func(AnchorMode) error{
		"ellipse": s.EllipseMode,
		"rect":    s.RectMode,
		"shape":   s.ShapeMode,
		"image":   s.ImageMode,
	}
	for name, set := range setters {
		t.Run(name, func(t *testing.T) {
			if err := set(AnchorCorners); err != nil {
				t.Errorf("set(CORNERS) = %v", err)
			}
			if err := set(AnchorMode(42)); !errors.Is(err, ErrUnsupportedMode) {
				t.Errorf("set(42) = %v, want ErrUnsupportedMode", err)
			}
		})
	}
	ellipse, rect, shape, image := s.Modes()
	for _, m := range []AnchorMode{ellipse, rect, shape, image} {
		if m != AnchorCorners {
			t.Errorf("mode = %v, want CORNERS", m)
		}
	}
}

func TestStrokeWeightAndBlend(t *testing.T) {
	s := NewRenderState()
	if err := s.StrokeWeight(4); err != nil {
		t.Fatalf("StrokeWeight(4) = %v", err)
	}
	for _, w := range []float32{0, -1, float32(math.NaN())} {
		if err := s.StrokeWeight(w); !errors.Is(err, ErrNotPositive) {
			t.Errorf("StrokeWeight(%v) = %v, want ErrNotPositive", w, err)
		}
	}
	if s.Weight() != 4 {
		t.Errorf("Weight() = %v, want 4 after rejected weights", s.Weight())
	}
	if err := s.SetBlendMode(BlendMultiply); err != nil {
		t.Fatal(err)
	}
	if err := s.SetBlendMode(BlendMode(99)); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("SetBlendMode(99) = %v, want ErrUnsupportedMode", err)
	}
	if s.BlendMode() != BlendMultiply {
		t.Errorf("BlendMode() = %v, want MULTIPLY", s.BlendMode())
	}

	s.Smooth()
	p := s.drawParams()
	want, _ := BlendMultiply.State()
	if p.PointSize != 4 || p.LineWidth != 4 || !p.Smooth || p.Blend != want {
		t.Errorf("drawParams() = %+v", p)
	}
}

func TestRenderStateSnapshot(t *testing.T) {
	s := NewRenderState()
	s.SetPreserveAspectRatio(true)
	s.setAspect(200, 100)
	_ = s.RectMode(AnchorCenter)
	_ = s.Fill(RGB(1, 0, 0), RGB(0, 1, 0))
	s.StrokeOff()

	snap := s.Snapshot()
	if snap.AspectRatio != 2 || !snap.PreserveAspect || snap.StrokeEnabled {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.RectMode != AnchorCenter || snap.EllipseMode != AnchorCenter {
		t.Errorf("snapshot modes = %v, %v", snap.RectMode, snap.EllipseMode)
	}
	want := [][4]float32{{1, 0, 0, 1}, {0, 1, 0, 1}}
	if !reflect.DeepEqual(snap.Fill, want) {
		t.Errorf("snapshot fill = %v, want %v", snap.Fill, want)
	}

	snap.Fill[0] = [4]float32{}
	if s.FillColors()[0] != RGB(1, 0, 0) {
		t.Error("mutating the snapshot changed the state")
	}
}
