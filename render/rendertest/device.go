// Package rendertest provides a recording render.Device for tests.
package rendertest

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/p5/render"
)

// ErrInjected is the default error returned by a failing operation.
var ErrInjected = errors.New("rendertest: injected failure")

// Op names an operation whose failure can be injected.
type Op string

const (
	OpVertexBuffer Op = "vertex-buffer"
	OpIndexBuffer  Op = "index-buffer"
	OpProgram      Op = "program"
	OpTexture      Op = "texture"
	OpFramebuffer  Op = "framebuffer"
	OpClear        Op = "clear"
	OpDraw         Op = "draw"
	OpReadPixels   Op = "read-pixels"
)

// DrawRecord is one recorded draw.
type DrawRecord struct {
	Target   render.Target
	Label    string
	Program  *Program
	Vertices []render.Vertex
	Indices  []uint32
	Rule     render.IndexRule
	Assembly render.Assembly
	Uniforms *render.Uniforms
	Textures []render.TextureBinding
	Params   render.DrawParams
}

// ClearRecord is one recorded clear.
type ClearRecord struct {
	Target render.Target
	Color  gputypes.Color
}

// Device records everything it is asked to do.
type Device struct {
	Draws        []DrawRecord
	Clears       []ClearRecord
	Programs     []*Program
	Buffers      []*Buffer
	Textures     []*Texture
	Framebuffers []*Framebuffer

	// Destroyed is set by Destroy.
	Destroyed bool

	fail map[Op]error
}

// New returns an empty recording device.
func New() *Device {
	return &Device{fail: make(map[Op]error)}
}

// FailOn makes every later op fail with err (ErrInjected when nil) until
// Recover(op) is called.
func (d *Device) FailOn(op Op, err error) {
	if err == nil {
		err = ErrInjected
	}
	d.fail[op] = err
}

// Recover clears an injected failure.
func (d *Device) Recover(op Op) { delete(d.fail, op) }

// Reset forgets recorded draws and clears.
func (d *Device) Reset() {
	d.Draws = nil
	d.Clears = nil
}

// LiveBuffers counts buffers not yet destroyed.
func (d *Device) LiveBuffers() int {
	n := 0
	for _, b := range d.Buffers {
		if !b.Destroyed {
			n++
		}
	}
	return n
}

func (d *Device) CreateVertexBuffer(label string, vertices []render.Vertex) (render.Buffer, error) {
	if err := d.fail[OpVertexBuffer]; err != nil {
		return nil, err
	}
	b := &Buffer{Label: label, Vertices: append([]render.Vertex(nil), vertices...), n: len(vertices)}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) CreateIndexBuffer(label string, indices []uint32) (render.Buffer, error) {
	if err := d.fail[OpIndexBuffer]; err != nil {
		return nil, err
	}
	b := &Buffer{Label: label, Indices: append([]uint32(nil), indices...), n: len(indices)}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) CompileProgram(desc render.ProgramDesc) (render.Program, error) {
	if err := d.fail[OpProgram]; err != nil {
		return nil, err
	}
	p := &Program{Desc: desc}
	d.Programs = append(d.Programs, p)
	return p, nil
}

func (d *Device) CreateTexture(desc render.TextureDesc) (render.Texture, error) {
	if err := d.fail[OpTexture]; err != nil {
		return nil, err
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("rendertest: texture size %dx%d", desc.Width, desc.Height)
	}
	format := desc.Format
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	tex := &Texture{Label: desc.Label, W: desc.Width, H: desc.Height, F: format, Pixels: append([]byte(nil), desc.Pixels...)}
	d.Textures = append(d.Textures, tex)
	return tex, nil
}

func (d *Device) CreateFramebuffer(label string, width, height int) (render.Framebuffer, error) {
	if err := d.fail[OpFramebuffer]; err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("rendertest: framebuffer size %dx%d", width, height)
	}
	fb := &Framebuffer{
		Label: label,
		color: &Texture{Label: label, W: width, H: height, F: gputypes.TextureFormatRGBA32Float},
	}
	d.Framebuffers = append(d.Framebuffers, fb)
	return fb, nil
}

func (d *Device) Clear(target render.Target, c gputypes.Color) error {
	if err := d.fail[OpClear]; err != nil {
		return err
	}
	if fb, ok := target.(*Framebuffer); ok {
		fb.Cleared = c
	}
	d.Clears = append(d.Clears, ClearRecord{Target: target, Color: c})
	return nil
}

func (d *Device) Draw(target render.Target, call *render.DrawCall) error {
	if err := d.fail[OpDraw]; err != nil {
		return err
	}
	vb, ok := call.Vertices.(*Buffer)
	if !ok || vb.Destroyed {
		return errors.New("rendertest: draw with invalid vertex buffer")
	}
	prog, ok := call.Program.(*Program)
	if !ok || prog.Destroyed {
		return errors.New("rendertest: draw with invalid program")
	}
	rec := DrawRecord{
		Target:   target,
		Label:    call.Label,
		Program:  prog,
		Vertices: vb.Vertices,
		Rule:     call.Rule,
		Uniforms: call.Uniforms.Clone(),
		Textures: append([]render.TextureBinding(nil), call.Textures...),
		Params:   call.Params,
	}
	if call.Indices != nil {
		ib, ok := call.Indices.(*Buffer)
		if !ok || ib.Destroyed {
			return errors.New("rendertest: draw with invalid index buffer")
		}
		rec.Indices = ib.Indices
		rec.Rule.Indices = ib.Indices
	}
	rec.Assembly = render.Assemble(rec.Rule, len(vb.Vertices))
	d.Draws = append(d.Draws, rec)
	return nil
}

// ReadPixels returns the framebuffer filled with its last clear color.
func (d *Device) ReadPixels(fb render.Framebuffer) (*render.Pixels, error) {
	if err := d.fail[OpReadPixels]; err != nil {
		return nil, err
	}
	f, ok := fb.(*Framebuffer)
	if !ok {
		return nil, errors.New("rendertest: foreign framebuffer")
	}
	w, h := f.Width(), f.Height()
	pix := make([]float32, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i] = float32(f.Cleared.R)
		pix[i+1] = float32(f.Cleared.G)
		pix[i+2] = float32(f.Cleared.B)
		pix[i+3] = float32(f.Cleared.A)
	}
	return &render.Pixels{Width: w, Height: h, Pix: pix}, nil
}

func (d *Device) Destroy() { d.Destroyed = true }

// Buffer is a recorded vertex or index buffer.
type Buffer struct {
	Label     string
	Vertices  []render.Vertex
	Indices   []uint32
	Destroyed bool

	// Destroys counts Destroy calls.
	Destroys int

	n int
}

func (b *Buffer) Len() int { return b.n }

func (b *Buffer) Destroy() {
	b.Destroyed = true
	b.Destroys++
}

// Program is a recorded program.
type Program struct {
	Desc      render.ProgramDesc
	Destroyed bool
}

func (p *Program) Label() string { return p.Desc.Label }
func (p *Program) Destroy()      { p.Destroyed = true }

// Texture is a recorded texture.
type Texture struct {
	Label     string
	W, H      int
	F         gputypes.TextureFormat
	Pixels    []byte
	Destroyed bool
}

func (t *Texture) Width() int                     { return t.W }
func (t *Texture) Height() int                    { return t.H }
func (t *Texture) Format() gputypes.TextureFormat { return t.F }
func (t *Texture) Destroy()                       { t.Destroyed = true }

// Framebuffer is a recorded offscreen target.
type Framebuffer struct {
	Label     string
	Cleared   gputypes.Color
	Destroyed bool
	color     *Texture
}

func (f *Framebuffer) Width() int                     { return f.color.W }
func (f *Framebuffer) Height() int                    { return f.color.H }
func (f *Framebuffer) Format() gputypes.TextureFormat { return f.color.F }
func (f *Framebuffer) HasDepth() bool                 { return true }
func (f *Framebuffer) Texture() render.Texture        { return f.color }

func (f *Framebuffer) Destroy() {
	f.Destroyed = true
	f.color.Destroyed = true
}

// Screen is a surface-sized target without depth, standing in for a window
// swapchain image.
type Screen struct {
	W, H int
}

func (s *Screen) Width() int                     { return s.W }
func (s *Screen) Height() int                    { return s.H }
func (s *Screen) Format() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (s *Screen) HasDepth() bool                 { return false }

var (
	_ render.Device      = (*Device)(nil)
	_ render.Framebuffer = (*Framebuffer)(nil)
	_ render.Texture     = (*Texture)(nil)
	_ render.Target      = (*Screen)(nil)
)
