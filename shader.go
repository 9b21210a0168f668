package p5

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gogpu/p5/internal/shader"
	"github.com/gogpu/p5/render"
)

// program is one compiled entry of the shader bank.
type program struct {
	prog render.Program
	desc render.ProgramDesc
}

// shaderBank holds the built-in programs at their fixed slots followed by
// loaded custom programs.
type shaderBank struct {
	programs []program
}

func newShaderBank(dev render.Device) (*shaderBank, error) {
	descs, err := shader.Builtins()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	b := &shaderBank{}
	for _, desc := range descs {
		if _, err := b.add(dev, desc); err != nil {
			b.destroy()
			return nil, err
		}
	}
	return b, nil
}

func (b *shaderBank) add(dev render.Device, desc render.ProgramDesc) (int, error) {
	prog, err := dev.CompileProgram(desc)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrShaderCompile, desc.Label, err)
	}
	Logger().Debug("p5: program compiled", "label", desc.Label, "slot", len(b.programs))
	b.programs = append(b.programs, program{prog: prog, desc: desc})
	return len(b.programs) - 1, nil
}

func (b *shaderBank) get(i int) (program, error) {
	if i < 0 || i >= len(b.programs) {
		return program{}, fmt.Errorf("%w: %d", ErrNoProgram, i)
	}
	return b.programs[i], nil
}

func (b *shaderBank) destroy() {
	for _, p := range b.programs {
		p.prog.Destroy()
	}
	b.programs = nil
}

// ShaderInfo is a custom program together with the uniform values and
// textures it is drawn with.
type ShaderInfo struct {
	program  int
	uniforms *render.Uniforms
	declared []string
	textures []render.TextureBinding
}

// Program returns the bank slot of the program.
func (info *ShaderInfo) Program() int { return info.program }

// Uniforms returns a copy of the current uniform values, MVP first.
func (info *ShaderInfo) Uniforms() *render.Uniforms { return info.uniforms.Clone() }

// Set replaces all uniform values. The names and kinds must match the
// program's in order; MVP may be omitted.
func (info *ShaderInfo) Set(uniforms *render.Uniforms) error {
	seeded := shader.Seeded(uniforms)
	if got, want := seeded.Layout(), info.uniforms.Layout(); got != want {
		return fmt.Errorf("%w: have %s, want %s", ErrUniformLayout, got, want)
	}
	info.uniforms = seeded
	return nil
}

// Update replaces individual uniform values. Each must name a uniform of
// the program with the same kind.
func (info *ShaderInfo) Update(values ...render.Uniform) error {
	for _, v := range values {
		cur, ok := info.uniforms.Get(v.Name)
		if !ok || cur.Kind != v.Kind {
			return fmt.Errorf("%w: %s %s", ErrUniformLayout, v.Name, v.Kind.WGSL())
		}
	}
	for _, v := range values {
		info.uniforms.Set(v)
	}
	return nil
}

// BindTexture binds tex to the program's texture named name, replacing an
// earlier binding of the same name.
func (info *ShaderInfo) BindTexture(name string, tex render.Texture) error {
	known := false
	for _, d := range info.declared {
		known = known || d == name
	}
	if !known {
		return fmt.Errorf("%w: no texture %q", ErrUniformLayout, name)
	}
	for i := range info.textures {
		if info.textures[i].Name == name {
			info.textures[i].Texture = tex
			return nil
		}
	}
	info.textures = append(info.textures, render.TextureBinding{Name: name, Texture: tex})
	return nil
}

// Mould is a shape drawn with a custom program.
type Mould struct {
	Shape *Shape
	Info  *ShaderInfo
}

// NewMould pairs shape with info.
func NewMould(shape *Shape, info *ShaderInfo) *Mould {
	return &Mould{Shape: shape, Info: info}
}

// ShaderBinding selects the program a draw uses: the built-in programs
// (the zero value) or a custom one.
type ShaderBinding struct {
	info *ShaderInfo
}

// DefaultShader draws untextured shapes with the plain program and
// textured shapes with the textured program.
func DefaultShader() ShaderBinding { return ShaderBinding{} }

// CustomShader draws with info's program, uniforms and textures.
func CustomShader(info *ShaderInfo) ShaderBinding { return ShaderBinding{info: info} }

// IsDefault reports whether the binding selects the built-in programs.
func (b ShaderBinding) IsDefault() bool { return b.info == nil }

// Info returns the custom program, or nil for the default binding.
func (b ShaderBinding) Info() *ShaderInfo { return b.info }

// Shader makes later Draw calls use info.
func (s *Screen) Shader(info *ShaderInfo) { s.binding = CustomShader(info) }

// ResetShader returns Draw to the built-in programs.
func (s *Screen) ResetShader() { s.binding = DefaultShader() }

// Binding returns the shader binding Draw uses.
func (s *Screen) Binding() ShaderBinding { return s.binding }

// Draw draws shape into the offscreen framebuffer with the binding set by
// Shader or ResetShader.
func (s *Screen) Draw(shape *Shape) error {
	return s.DrawWith(shape, s.binding)
}

// DrawWith draws shape into the offscreen framebuffer with b.
func (s *Screen) DrawWith(shape *Shape, b ShaderBinding) error {
	target, err := s.offscreen()
	if err != nil {
		return err
	}
	return s.drawShape(target, shape, b, s.state.drawParams())
}

// DrawMould draws m.Shape with m's program.
func (s *Screen) DrawMould(m *Mould) error {
	return s.DrawWith(m.Shape, CustomShader(m.Info))
}

// drawShape issues the fill draw when fill is on and the stroke draw when
// stroke is on. Stroke draws only go out for unindexed line and point
// rules.
func (s *Screen) drawShape(target render.Target, sh *Shape, b ShaderBinding, params render.DrawParams) error {
	if sh == nil || sh.destroyed {
		return fmt.Errorf("p5: draw: shape: %w", ErrDestroyed)
	}
	if s.state.fillEnabled && !sh.fill.empty() {
		if err := s.drawMesh(target, "fill", sh, &sh.fill, b, params); err != nil {
			return err
		}
	}
	rule := sh.stroke.rule
	if s.state.strokeEnabled && !sh.stroke.empty() && rule.Primitive.IsStroke() && !rule.HasBuffer() {
		if err := s.drawMesh(target, "stroke", sh, &sh.stroke, b, params); err != nil {
			return err
		}
	}
	return nil
}

func (s *Screen) drawMesh(target render.Target, pass string, sh *Shape, m *mesh, b ShaderBinding, params render.DrawParams) error {
	mvp := render.Mat4(render.MVPName, s.transform.Current().Array())

	var (
		slot     int
		uniforms *render.Uniforms
		textures []render.TextureBinding
	)
	switch {
	case b.info != nil:
		slot = b.info.program
		uniforms = b.info.uniforms.Clone()
		uniforms.Set(mvp)
		textures = b.info.textures
	case sh.texture != nil:
		t := s.state.TintColor()
		slot = shader.SlotTextured
		uniforms = render.NewUniforms(mvp, render.Vec4(shader.UniformTint, t.R, t.G, t.B, t.A))
		textures = []render.TextureBinding{{Name: shader.TextureShape, Texture: sh.texture}}
	default:
		slot = shader.SlotPlain
		uniforms = render.NewUniforms(mvp)
	}

	p, err := s.bank.get(slot)
	if err != nil {
		return &DrawError{Pass: pass, Program: slot, Err: err}
	}
	call := &render.DrawCall{
		Label:    sh.label + "-" + pass,
		Program:  p.prog,
		Vertices: m.vertices,
		Indices:  m.indices,
		Rule:     m.rule,
		Uniforms: uniforms,
		Textures: textures,
		Params:   params,
	}
	if err := s.dev.Draw(target, call); err != nil {
		return &DrawError{Pass: pass, Program: slot, Err: err}
	}
	return nil
}

// LoadFragShader compiles the fragment body in the file at path. The body
// must define fs_main; it sees the uniforms as u, the vertex output as
// VertexOutput and each texture with its "<name>_sampler". #include lines
// are resolved relative to the including file.
func (s *Screen) LoadFragShader(path string, uniforms *render.Uniforms, textures ...string) (*ShaderInfo, error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	return s.LoadFragShaderFS(os.DirFS(dir), name, uniforms, textures...)
}

// LoadFragShaderFS is like LoadFragShader but reads from fsys.
func (s *Screen) LoadFragShaderFS(fsys fs.FS, name string, uniforms *render.Uniforms, textures ...string) (*ShaderInfo, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	src, err := shader.ExpandIncludes(fsys, name)
	if err != nil {
		if errors.Is(err, shader.ErrSourceNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrShaderNotFound, err)
		}
		return nil, err
	}
	return s.compileFragment(name, src, uniforms, textures)
}

// LoadFragShaderSource compiles a fragment body held in memory. name labels
// the program and its errors; src may not #include other files.
func (s *Screen) LoadFragShaderSource(name, src string, uniforms *render.Uniforms, textures ...string) (*ShaderInfo, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	expanded, err := shader.ExpandSource(nil, name, src)
	if err != nil {
		return nil, err
	}
	return s.compileFragment(name, expanded, uniforms, textures)
}

func (s *Screen) compileFragment(name, fragment string, uniforms *render.Uniforms, textures []string) (*ShaderInfo, error) {
	desc, err := shader.Assemble(name, fragment, uniforms, textures, shader.VertexTransform)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	slot, err := s.bank.add(s.dev, desc)
	if err != nil {
		return nil, err
	}
	return &ShaderInfo{
		program:  slot,
		uniforms: desc.Uniforms.Clone(),
		declared: desc.Textures,
	}, nil
}
