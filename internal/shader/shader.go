// Package shader assembles the WGSL programs p5 draws with.
//
// A program is a generated prelude (uniform struct, texture bindings,
// vertex stage) followed by a fragment body that defines fs_main. The four
// built-in programs occupy fixed slots; custom fragment bodies are loaded
// from files or memory and get the same prelude.
package shader

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/p5/render"
)

// Built-in program slots.
const (
	SlotPlain    = 0
	SlotTextured = 1
	SlotText     = 2
	SlotBlit     = 3
)

// Texture and uniform names used by the built-in programs.
const (
	TextureShape       = "tex"
	TextureText        = "text"
	TextureFramebuffer = "texFramebuffer"
	UniformTint        = "tint"
	UniformTextColor   = "textColor"
)

//go:embed shaders/plain.wgsl
var plainFragment string

//go:embed shaders/textured.wgsl
var texturedFragment string

//go:embed shaders/text.wgsl
var textFragment string

//go:embed shaders/blit.wgsl
var blitFragment string

// ErrCompile is returned when WGSL fails validation.
var ErrCompile = errors.New("shader: compile failed")

// Identity is the column-major 4x4 identity matrix.
var Identity = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// Seeded returns a copy of uniforms with MVP (identity) as the first value.
// A caller-supplied MVP keeps its value but moves to the front.
func Seeded(uniforms *render.Uniforms) *render.Uniforms {
	mvp := render.Mat4(render.MVPName, Identity)
	if v, ok := uniforms.Get(render.MVPName); ok && v.Kind == render.UniformMat4 {
		mvp = v
	}
	out := render.NewUniforms(mvp)
	for _, v := range uniforms.All() {
		if v.Name != render.MVPName {
			out.Set(v)
		}
	}
	return out
}

// Assemble builds a complete program from a fragment body.
func Assemble(label, fragment string, uniforms *render.Uniforms, textures []string, stage VertexStage) (render.ProgramDesc, error) {
	u := Seeded(uniforms)
	if err := u.Validate(); err != nil {
		return render.ProgramDesc{}, fmt.Errorf("shader: %s: %w", label, err)
	}
	seen := make(map[string]bool, len(textures))
	for _, name := range textures {
		if _, clash := u.Get(name); clash || seen[name] {
			return render.ProgramDesc{}, fmt.Errorf("shader: %s: texture %q: %w", label, name, render.ErrUniformName)
		}
		if err := render.NewUniforms(render.Float(name, 0)).Validate(); err != nil {
			return render.ProgramDesc{}, fmt.Errorf("shader: %s: texture: %w", label, err)
		}
		seen[name] = true
	}
	return render.ProgramDesc{
		Label:    label,
		Source:   Prelude(u, textures, stage) + "\n" + fragment,
		Uniforms: u,
		Textures: append([]string(nil), textures...),
	}, nil
}

// Builtins returns the built-in programs in slot order.
func Builtins() ([]render.ProgramDesc, error) {
	tinted := render.NewUniforms(render.Vec4(UniformTint, 1, 1, 1, 1))
	colored := render.NewUniforms(render.Vec3(UniformTextColor, 0, 0, 0))

	plain, err := Assemble("p5-plain", plainFragment, nil, nil, VertexTransform)
	if err != nil {
		return nil, err
	}
	textured, err := Assemble("p5-textured", texturedFragment, tinted, []string{TextureShape}, VertexTransform)
	if err != nil {
		return nil, err
	}
	text, err := Assemble("p5-text", textFragment, colored, []string{TextureText}, VertexTransform)
	if err != nil {
		return nil, err
	}
	blit, err := Assemble("p5-blit", blitFragment, nil, []string{TextureFramebuffer}, VertexPassthrough)
	if err != nil {
		return nil, err
	}
	return []render.ProgramDesc{
		SlotPlain:    plain,
		SlotTextured: textured,
		SlotText:     text,
		SlotBlit:     blit,
	}, nil
}

// Compile validates WGSL and returns SPIR-V words.
func Compile(source string) ([]uint32, error) {
	spirv, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = uint32(spirv[i*4]) |
			uint32(spirv[i*4+1])<<8 |
			uint32(spirv[i*4+2])<<16 |
			uint32(spirv[i*4+3])<<24
	}
	return words, nil
}
