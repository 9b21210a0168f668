package p5

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// RGB returns an opaque color.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA returns a color with alpha.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Gray returns an opaque gray of brightness v.
func Gray(v float32) Color {
	return Color{R: v, G: v, B: v, A: 1}
}

// Common colors.
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Transparent = RGBA(0, 0, 0, 0)
)

// Default colors of a new Screen.
var (
	DefaultBackground = RGBA(0.8, 0.8, 0.8, 0.8)
	DefaultFill       = White
	DefaultStroke     = Black
)

// Array returns the components as [R, G, B, A].
func (c Color) Array() [4]float32 { return [4]float32{c.R, c.G, c.B, c.A} }

func (c Color) gpu() gputypes.Color {
	return gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}

func (c Color) String() string {
	return fmt.Sprintf("RGBA(%g, %g, %g, %g)", c.R, c.G, c.B, c.A)
}

func colorArrays(colors []Color) [][4]float32 {
	out := make([][4]float32, len(colors))
	for i, c := range colors {
		out[i] = c.Array()
	}
	return out
}
