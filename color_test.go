package p5

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestColorConstructors(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want [4]float32
	}{
		{"rgb", RGB(0.1, 0.2, 0.3), [4]float32{0.1, 0.2, 0.3, 1}},
		{"rgba", RGBA(0.1, 0.2, 0.3, 0.4), [4]float32{0.1, 0.2, 0.3, 0.4}},
		{"gray", Gray(0.5), [4]float32{0.5, 0.5, 0.5, 1}},
		{"transparent", Transparent, [4]float32{}},
		{"default background", DefaultBackground, [4]float32{0.8, 0.8, 0.8, 0.8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Array(); got != tt.want {
				t.Errorf("Array() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColorGPU(t *testing.T) {
	got := RGBA(1, 0.5, 0, 0.25).gpu()
	want := gputypes.Color{R: 1, G: 0.5, B: 0, A: 0.25}
	if got != want {
		t.Errorf("gpu() = %+v, want %+v", got, want)
	}
}

func TestColorString(t *testing.T) {
	if got := RGBA(1, 0.5, 0, 1).String(); got != "RGBA(1, 0.5, 0, 1)" {
		t.Errorf("String() = %q", got)
	}
}
