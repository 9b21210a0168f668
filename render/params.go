package render

import "github.com/gogpu/gputypes"

// DrawParams is the fixed-function state of one draw.
type DrawParams struct {
	Blend        gputypes.BlendState
	DepthWrite   bool
	DepthCompare gputypes.CompareFunction

	// PointSize and LineWidth are in pixels. Backends whose API draws
	// one-pixel points and lines only (WebGPU) ignore them.
	PointSize float32
	LineWidth float32

	// Smooth requests multisampled rasterization.
	Smooth bool
}

// DefaultDrawParams returns straight-alpha blending with depth writes on
// and an Always depth test.
func DefaultDrawParams() DrawParams {
	return DrawParams{
		Blend: gputypes.BlendState{
			Color: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorSrcAlpha,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
			Alpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
		},
		DepthWrite:   true,
		DepthCompare: gputypes.CompareFunctionAlways,
		PointSize:    2,
		LineWidth:    2,
	}
}
