package p5

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/p5/internal/tess"
	"github.com/gogpu/p5/render"
)

// defaultStrokeWeight is the point size and line width of a new Screen.
const defaultStrokeWeight = 2

// RenderState holds the drawing attributes consulted by shape construction
// and draw calls. The zero value is not usable; see NewRenderState.
type RenderState struct {
	background Color

	fillEnabled   bool
	fill          []Color
	strokeEnabled bool
	stroke        []Color

	tintEnabled bool
	tint        Color

	colorMode   ColorMode
	ellipseMode AnchorMode
	rectMode    AnchorMode
	shapeMode   AnchorMode
	imageMode   AnchorMode

	strokeWeight float32
	blendMode    BlendMode
	blend        gputypes.BlendState
	smooth       bool

	preserveAspect bool
	aspect         float64
}

// NewRenderState returns the defaults of a new Screen: fill white, stroke
// black, tint off, RGB colors, ellipses anchored at their center, rects,
// shapes and images at their corner, and straight-alpha blending.
func NewRenderState() *RenderState {
	blend, _ := BlendBlend.State()
	return &RenderState{
		background:    DefaultBackground,
		fillEnabled:   true,
		fill:          []Color{DefaultFill},
		strokeEnabled: true,
		stroke:        []Color{DefaultStroke},
		tint:          White,
		colorMode:     ColorRGB,
		ellipseMode:   AnchorCenter,
		rectMode:      AnchorCorner,
		shapeMode:     AnchorCorner,
		imageMode:     AnchorCorner,
		strokeWeight:  defaultStrokeWeight,
		blendMode:     BlendBlend,
		blend:         blend,
		aspect:        1,
	}
}

func (s *RenderState) checkColors(what string, colors []Color) error {
	if s.colorMode != ColorRGB {
		return fmt.Errorf("%w: %s in %v", ErrUnsupportedColorMode, what, s.colorMode)
	}
	if len(colors) == 0 {
		return fmt.Errorf("%s: %w", what, ErrNoColor)
	}
	return nil
}

// Fill sets the fill colors and turns fill on. With several colors,
// batched shape instance i takes colors[i%len(colors)].
func (s *RenderState) Fill(colors ...Color) error {
	if err := s.checkColors("fill", colors); err != nil {
		return err
	}
	s.fill = append(s.fill[:0:0], colors...)
	s.fillEnabled = true
	return nil
}

// Stroke sets the stroke colors and turns stroke on.
func (s *RenderState) Stroke(colors ...Color) error {
	if err := s.checkColors("stroke", colors); err != nil {
		return err
	}
	s.stroke = append(s.stroke[:0:0], colors...)
	s.strokeEnabled = true
	return nil
}

// FillOff disables fill until FillOn or the next Fill.
func (s *RenderState) FillOff() { s.fillEnabled = false }

// FillOn re-enables fill with the previous colors.
func (s *RenderState) FillOn() { s.fillEnabled = true }

// StrokeOff disables stroke until StrokeOn or the next Stroke.
func (s *RenderState) StrokeOff() { s.strokeEnabled = false }

// StrokeOn re-enables stroke with the previous colors.
func (s *RenderState) StrokeOn() { s.strokeEnabled = true }

// FillEnabled reports whether shapes are filled.
func (s *RenderState) FillEnabled() bool { return s.fillEnabled }

// StrokeEnabled reports whether shapes are outlined.
func (s *RenderState) StrokeEnabled() bool { return s.strokeEnabled }

// FillColors returns a copy of the fill colors.
func (s *RenderState) FillColors() []Color { return append([]Color(nil), s.fill...) }

// StrokeColors returns a copy of the stroke colors.
func (s *RenderState) StrokeColors() []Color { return append([]Color(nil), s.stroke...) }

// Tint multiplies textured draws by c.
func (s *RenderState) Tint(c Color) error {
	if err := s.checkColors("tint", []Color{c}); err != nil {
		return err
	}
	s.tint = c
	s.tintEnabled = true
	return nil
}

// NoTint turns tinting off.
func (s *RenderState) NoTint() { s.tintEnabled = false }

// TintColor returns the tint applied to textured draws: white while tint
// is off.
func (s *RenderState) TintColor() Color {
	if !s.tintEnabled {
		return White
	}
	return s.tint
}

// SetBackground records the background color.
func (s *RenderState) SetBackground(c Color) error {
	if err := s.checkColors("background", []Color{c}); err != nil {
		return err
	}
	s.background = c
	return nil
}

// BackgroundColor returns the background color.
func (s *RenderState) BackgroundColor() Color { return s.background }

// SetColorMode records how color components are interpreted.
func (s *RenderState) SetColorMode(m ColorMode) error {
	switch m {
	case ColorRGB, ColorHSB:
		s.colorMode = m
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnsupportedMode, m)
}

// ColorMode returns the current color mode.
func (s *RenderState) ColorMode() ColorMode { return s.colorMode }

func checkAnchor(m AnchorMode) error {
	if m > AnchorRadius {
		return fmt.Errorf("%w: %v", ErrUnsupportedMode, m)
	}
	return nil
}

// EllipseMode sets how ellipse and arc parameters are anchored.
func (s *RenderState) EllipseMode(m AnchorMode) error {
	if err := checkAnchor(m); err != nil {
		return err
	}
	s.ellipseMode = m
	return nil
}

// RectMode sets how rect parameters are anchored.
func (s *RenderState) RectMode(m AnchorMode) error {
	if err := checkAnchor(m); err != nil {
		return err
	}
	s.rectMode = m
	return nil
}

// ShapeMode records the anchor mode of free-form shapes.
func (s *RenderState) ShapeMode(m AnchorMode) error {
	if err := checkAnchor(m); err != nil {
		return err
	}
	s.shapeMode = m
	return nil
}

// ImageMode records the anchor mode of images.
func (s *RenderState) ImageMode(m AnchorMode) error {
	if err := checkAnchor(m); err != nil {
		return err
	}
	s.imageMode = m
	return nil
}

// Modes returns the ellipse, rect, shape and image anchor modes.
func (s *RenderState) Modes() (ellipse, rect, shape, image AnchorMode) {
	return s.ellipseMode, s.rectMode, s.shapeMode, s.imageMode
}

// StrokeWeight sets the point size and line width in pixels. A weight
// that is not positive returns ErrNotPositive and keeps the old one.
func (s *RenderState) StrokeWeight(w float32) error {
	if !(w > 0) {
		return fmt.Errorf("%w: stroke weight %v", ErrNotPositive, w)
	}
	s.strokeWeight = w
	return nil
}

// Weight returns the stroke weight.
func (s *RenderState) Weight() float32 { return s.strokeWeight }

// SetBlendMode selects the blend equation of later draws.
func (s *RenderState) SetBlendMode(m BlendMode) error {
	blend, err := m.State()
	if err != nil {
		return err
	}
	s.blendMode = m
	s.blend = blend
	return nil
}

// BlendMode returns the current blend mode.
func (s *RenderState) BlendMode() BlendMode { return s.blendMode }

// Smooth requests antialiased drawing.
func (s *RenderState) Smooth() { s.smooth = true }

// NoSmooth turns antialiasing off.
func (s *RenderState) NoSmooth() { s.smooth = false }

// Smoothing reports whether antialiasing was requested.
func (s *RenderState) Smoothing() bool { return s.smooth }

// SetPreserveAspectRatio toggles aspect correction of shape coordinates.
func (s *RenderState) SetPreserveAspectRatio(preserve bool) { s.preserveAspect = preserve }

// PreserveAspectRatio reports whether aspect correction is on.
func (s *RenderState) PreserveAspectRatio() bool { return s.preserveAspect }

// AspectRatio returns framebuffer width / height.
func (s *RenderState) AspectRatio() float64 { return s.aspect }

func (s *RenderState) setAspect(width, height int) {
	if width > 0 && height > 0 {
		s.aspect = float64(width) / float64(height)
	}
}

// Snapshot returns the read-only view shape construction works from.
func (s *RenderState) Snapshot() *tess.State {
	return &tess.State{
		AspectRatio:    s.aspect,
		PreserveAspect: s.preserveAspect,
		EllipseMode:    s.ellipseMode,
		RectMode:       s.rectMode,
		StrokeEnabled:  s.strokeEnabled,
		Fill:           colorArrays(s.fill),
		Stroke:         colorArrays(s.stroke),
	}
}

// drawParams returns the fixed-function state of the next draw.
func (s *RenderState) drawParams() render.DrawParams {
	p := render.DefaultDrawParams()
	p.Blend = s.blend
	p.PointSize = s.strokeWeight
	p.LineWidth = s.strokeWeight
	p.Smooth = s.smooth
	return p
}
