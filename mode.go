package p5

import (
	"fmt"
	"strings"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gogpu/p5/internal/tess"
)

// upper folds mode names so "center", "Center" and "CENTER" parse alike.
var upper = cases.Upper(language.Und)

func modeName(s string) string { return upper.String(strings.TrimSpace(s)) }

// AnchorMode selects how the position and size of an ellipse, arc, rect
// or image are interpreted.
type AnchorMode = tess.AnchorMode

const (
	AnchorCorner  = tess.AnchorCorner
	AnchorCorners = tess.AnchorCorners
	AnchorCenter  = tess.AnchorCenter
	AnchorRadius  = tess.AnchorRadius
)

// ParseAnchorMode parses CENTER, CORNER, CORNERS or RADIUS.
func ParseAnchorMode(s string) (AnchorMode, error) {
	switch modeName(s) {
	case "CORNER":
		return AnchorCorner, nil
	case "CORNERS":
		return AnchorCorners, nil
	case "CENTER":
		return AnchorCenter, nil
	case "RADIUS":
		return AnchorRadius, nil
	}
	return 0, fmt.Errorf("%w: anchor mode %q", ErrUnsupportedMode, s)
}

// ColorMode is the interpretation of color components.
type ColorMode uint8

const (
	ColorRGB ColorMode = iota
	// ColorHSB is recorded but not interpreted: color setters fail while it
	// is active.
	ColorHSB
)

func (m ColorMode) String() string {
	switch m {
	case ColorRGB:
		return "RGB"
	case ColorHSB:
		return "HSB"
	}
	return fmt.Sprintf("ColorMode(%d)", uint8(m))
}

// ParseColorMode parses RGB or HSB.
func ParseColorMode(s string) (ColorMode, error) {
	switch modeName(s) {
	case "RGB":
		return ColorRGB, nil
	case "HSB":
		return ColorHSB, nil
	}
	return 0, fmt.Errorf("%w: color mode %q", ErrUnsupportedMode, s)
}

// BlendMode is a named blend equation.
type BlendMode uint8

const (
	BlendReplace BlendMode = iota
	BlendBlend
	BlendAdd
	BlendSubtract
	BlendLightest
	BlendDarkest
	BlendExclusion
	BlendMultiply
	BlendScreen
)

var blendModeNames = [...]string{
	BlendReplace:   "REPLACE",
	BlendBlend:     "BLEND",
	BlendAdd:       "ADD",
	BlendSubtract:  "SUBTRACT",
	BlendLightest:  "LIGHTEST",
	BlendDarkest:   "DARKEST",
	BlendExclusion: "EXCLUSION",
	BlendMultiply:  "MULTIPLY",
	BlendScreen:    "SCREEN",
}

func (m BlendMode) String() string {
	if int(m) < len(blendModeNames) {
		return blendModeNames[m]
	}
	return fmt.Sprintf("BlendMode(%d)", uint8(m))
}

// ParseBlendMode parses a blend mode name such as BLEND or MULTIPLY.
func ParseBlendMode(s string) (BlendMode, error) {
	name := modeName(s)
	for m, n := range blendModeNames {
		if n == name {
			return BlendMode(m), nil
		}
	}
	return 0, fmt.Errorf("%w: blend mode %q", ErrUnsupportedMode, s)
}

func component(src, dst gputypes.BlendFactor, op gputypes.BlendOperation) gputypes.BlendComponent {
	return gputypes.BlendComponent{SrcFactor: src, DstFactor: dst, Operation: op}
}

// State returns the blend state of m. The alpha channel accumulates
// (One, One, Add) for every mode but REPLACE.
func (m BlendMode) State() (gputypes.BlendState, error) {
	const (
		zero             = gputypes.BlendFactorZero
		one              = gputypes.BlendFactorOne
		src              = gputypes.BlendFactorSrc
		srcAlpha         = gputypes.BlendFactorSrcAlpha
		oneMinusSrcAlpha = gputypes.BlendFactorOneMinusSrcAlpha
		oneMinusDst      = gputypes.BlendFactorOneMinusDst
		add              = gputypes.BlendOperationAdd
	)
	alpha := component(one, one, add)
	var color gputypes.BlendComponent
	switch m {
	case BlendReplace:
		return gputypes.BlendState{Color: component(one, zero, add), Alpha: component(one, zero, add)}, nil
	case BlendBlend:
		color = component(srcAlpha, oneMinusSrcAlpha, add)
	case BlendAdd:
		color = component(srcAlpha, one, add)
	case BlendSubtract:
		color = component(srcAlpha, one, gputypes.BlendOperationReverseSubtract)
	case BlendLightest:
		color = component(one, one, gputypes.BlendOperationMax)
	case BlendDarkest:
		color = component(one, one, gputypes.BlendOperationMin)
	case BlendExclusion:
		color = component(oneMinusDst, oneMinusSrcAlpha, add)
	case BlendMultiply:
		color = component(zero, src, add)
	case BlendScreen:
		color = component(oneMinusDst, one, add)
	default:
		return gputypes.BlendState{}, fmt.Errorf("%w: %v", ErrUnsupportedMode, m)
	}
	return gputypes.BlendState{Color: color, Alpha: alpha}, nil
}

// CursorKind is a named mouse cursor.
type CursorKind uint8

const (
	CursorArrow CursorKind = iota
	CursorHand
	CursorCross
	CursorMove
	CursorText
	CursorWait
)

var cursorNames = [...]string{
	CursorArrow: "ARROW",
	CursorHand:  "HAND",
	CursorCross: "CROSS",
	CursorMove:  "MOVE",
	CursorText:  "TEXT",
	CursorWait:  "WAIT",
}

var cursorShapes = [...]gpucontext.CursorShape{
	CursorArrow: gpucontext.CursorDefault,
	CursorHand:  gpucontext.CursorPointer,
	CursorCross: gpucontext.CursorCrosshair,
	CursorMove:  gpucontext.CursorMove,
	CursorText:  gpucontext.CursorText,
	CursorWait:  gpucontext.CursorWait,
}

func (k CursorKind) String() string {
	if int(k) < len(cursorNames) {
		return cursorNames[k]
	}
	return fmt.Sprintf("CursorKind(%d)", uint8(k))
}

// Shape returns the platform cursor shape of k.
func (k CursorKind) Shape() (gpucontext.CursorShape, error) {
	if int(k) < len(cursorShapes) {
		return cursorShapes[k], nil
	}
	return gpucontext.CursorDefault, fmt.Errorf("%w: %v", ErrUnsupportedMode, k)
}

// ParseCursor parses HAND, ARROW, CROSS, MOVE, TEXT or WAIT.
func ParseCursor(s string) (CursorKind, error) {
	name := modeName(s)
	for k, n := range cursorNames {
		if n == name {
			return CursorKind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: cursor %q", ErrUnsupportedMode, s)
}
