package shader

import (
	"fmt"
	"strings"

	"github.com/gogpu/p5/render"
)

// VertexStage selects the vertex stage a prelude declares.
type VertexStage uint8

const (
	// VertexTransform multiplies positions by the MVP uniform.
	VertexTransform VertexStage = iota
	// VertexPassthrough uses position.xy as clip coordinates.
	VertexPassthrough
)

const vertexIO = `struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) color: vec4<f32>,
    @location(2) texcoord: vec2<f32>,
}

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec4<f32>,
    @location(1) position: vec3<f32>,
    @location(2) texcoord: vec2<f32>,
}

// Texture coordinates have v = 0 at the bottom row.
fn flip_v(t: vec2<f32>) -> vec2<f32> {
    return vec2<f32>(t.x, 1.0 - t.y);
}
`

// Positions use a [-1, 1] depth range; WebGPU clips to [0, 1].
const vertexTransform = `@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    let clip = u.MVP * vec4<f32>(in.position, 1.0);
    out.clip = vec4<f32>(clip.xy, (clip.z + clip.w) * 0.5, clip.w);
    out.color = in.color;
    out.position = in.position;
    out.texcoord = in.texcoord;
    return out;
}
`

const vertexPassthrough = `@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = vec4<f32>(in.position.xy, 0.0, 1.0);
    out.color = in.color;
    out.position = in.position;
    out.texcoord = in.texcoord;
    return out;
}
`

// Prelude returns the WGSL declarations a fragment body is appended to:
// the Uniforms struct bound as u at @group(0) @binding(0), each texture at
// @binding(1+2i) with "<name>_sampler" at @binding(2+2i), the vertex
// input/output structs, flip_v and vs_main.
func Prelude(uniforms *render.Uniforms, textures []string, stage VertexStage) string {
	var sb strings.Builder
	sb.WriteString(uniforms.WGSLStruct("Uniforms"))
	sb.WriteString("\n@group(0) @binding(0) var<uniform> u: Uniforms;\n")
	for i, name := range textures {
		fmt.Fprintf(&sb, "@group(0) @binding(%d) var %s: texture_2d<f32>;\n", 1+2*i, name)
		fmt.Fprintf(&sb, "@group(0) @binding(%d) var %s_sampler: sampler;\n", 2+2*i, name)
	}
	sb.WriteString("\n")
	sb.WriteString(vertexIO)
	sb.WriteString("\n")
	if stage == VertexPassthrough {
		sb.WriteString(vertexPassthrough)
	} else {
		sb.WriteString(vertexTransform)
	}
	return sb.String()
}
