package halgpu

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/p5/render"
)

// buffer is a vertex or index buffer.
type buffer struct {
	dev       *Device
	buf       hal.Buffer
	n         int
	destroyed bool

	// expanded holds index buffers generated from no-buffer rules,
	// keyed by rule.
	expanded map[string]*expandedIndices
}

type expandedIndices struct {
	buf hal.Buffer
	n   int
}

func (b *buffer) Len() int { return b.n }

func (b *buffer) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.dev.release(func() {
		b.dev.dev.DestroyBuffer(b.buf)
		for _, e := range b.expanded {
			b.dev.dev.DestroyBuffer(e.buf)
		}
	})
}

// release runs fn once every submission so far completed.
func (d *Device) release(fn func()) {
	if d.destroyed {
		return
	}
	d.mu.Lock()
	last := d.lastSubmit
	d.mu.Unlock()
	if last <= d.queue.PollCompleted() {
		fn()
		return
	}
	d.mu.Lock()
	d.pending = append(d.pending, pendingRelease{submission: last, release: fn})
	d.mu.Unlock()
}

func (d *Device) createBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	size := uint64(len(data))
	if size < 4 {
		size = 4
	}
	size = (size + 3) &^ 3
	buf, err := d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: d.label(label),
		Size:  size,
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := d.queue.WriteBuffer(buf, 0, data); err != nil {
			d.dev.DestroyBuffer(buf)
			return nil, err
		}
	}
	return buf, nil
}

func (d *Device) CreateVertexBuffer(label string, vertices []render.Vertex) (render.Buffer, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	buf, err := d.createBuffer(label, render.PackVertices(vertices), gputypes.BufferUsageVertex)
	if err != nil {
		return nil, fmt.Errorf("halgpu: vertex buffer %q: %w", label, err)
	}
	return &buffer{dev: d, buf: buf, n: len(vertices)}, nil
}

func (d *Device) CreateIndexBuffer(label string, indices []uint32) (render.Buffer, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	buf, err := d.createBuffer(label, render.PackIndices(indices), gputypes.BufferUsageIndex)
	if err != nil {
		return nil, fmt.Errorf("halgpu: index buffer %q: %w", label, err)
	}
	return &buffer{dev: d, buf: buf, n: len(indices)}, nil
}

// indicesFor returns the index buffer for an assembled no-buffer rule,
// creating it on first use.
func (b *buffer) indicesFor(rule render.IndexRule, indices []uint32) (*expandedIndices, error) {
	key := ruleKey(rule)
	if e, ok := b.expanded[key]; ok {
		return e, nil
	}
	buf, err := b.dev.createBuffer("expanded-indices", render.PackIndices(indices), gputypes.BufferUsageIndex)
	if err != nil {
		return nil, err
	}
	if b.expanded == nil {
		b.expanded = make(map[string]*expandedIndices)
	}
	e := &expandedIndices{buf: buf, n: len(indices)}
	b.expanded[key] = e
	return e, nil
}

func ruleKey(rule render.IndexRule) string {
	var sb strings.Builder
	sb.WriteString(rule.Primitive.String())
	if rule.Indices != nil {
		sb.WriteString("/i")
		sb.WriteString(strconv.Itoa(len(rule.Indices)))
		for _, i := range rule.Indices {
			sb.WriteByte(',')
			sb.WriteString(strconv.FormatUint(uint64(i), 10))
		}
		return sb.String()
	}
	for _, s := range rule.Segments {
		sb.WriteByte('/')
		sb.WriteString(strconv.Itoa(s))
	}
	return sb.String()
}

// texture is a sampled 2D texture.
type texture struct {
	dev       *Device
	tex       hal.Texture
	view      hal.TextureView
	w, h      int
	format    gputypes.TextureFormat
	destroyed bool

	// owned is set for framebuffer color attachments; Destroy is then a
	// no-op and the framebuffer releases the texture.
	owned bool
}

func (t *texture) Width() int                     { return t.w }
func (t *texture) Height() int                    { return t.h }
func (t *texture) Format() gputypes.TextureFormat { return t.format }

func (t *texture) Destroy() {
	if t.owned {
		return
	}
	t.destroy()
}

func (t *texture) destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.dev.release(func() {
		t.dev.dev.DestroyTextureView(t.view)
		t.dev.dev.DestroyTexture(t.tex)
	})
}

func (d *Device) newTexture(label string, w, h int, format gputypes.TextureFormat, usage gputypes.TextureUsage) (*texture, error) {
	tex, err := d.dev.CreateTexture(&hal.TextureDescriptor{
		Label:         d.label(label),
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, err
	}
	aspect := gputypes.TextureAspectAll
	if format == gputypes.TextureFormatDepth32Float {
		aspect = gputypes.TextureAspectDepthOnly
	}
	view, err := d.dev.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           d.label(label + "-view"),
		Format:          format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          aspect,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		d.dev.DestroyTexture(tex)
		return nil, err
	}
	return &texture{dev: d, tex: tex, view: view, w: w, h: h, format: format}, nil
}

func (d *Device) CreateTexture(desc render.TextureDesc) (render.Texture, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("halgpu: texture %q: invalid size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	format := desc.Format
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	bpp, err := bytesPerPixel(format)
	if err != nil {
		return nil, fmt.Errorf("halgpu: texture %q: %w", desc.Label, err)
	}
	if desc.Pixels != nil && len(desc.Pixels) != desc.Width*desc.Height*bpp {
		return nil, fmt.Errorf("halgpu: texture %q: %d bytes of pixel data, want %d",
			desc.Label, len(desc.Pixels), desc.Width*desc.Height*bpp)
	}

	t, err := d.newTexture(desc.Label, desc.Width, desc.Height, format,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("halgpu: texture %q: %w", desc.Label, err)
	}
	if desc.Pixels != nil {
		err := d.queue.WriteTexture(
			&hal.ImageCopyTexture{Texture: t.tex, Aspect: gputypes.TextureAspectAll},
			desc.Pixels,
			&hal.ImageDataLayout{BytesPerRow: uint32(desc.Width * bpp), RowsPerImage: uint32(desc.Height)},
			&hal.Extent3D{Width: uint32(desc.Width), Height: uint32(desc.Height), DepthOrArrayLayers: 1},
		)
		if err != nil {
			t.destroy()
			return nil, fmt.Errorf("halgpu: upload texture %q: %w", desc.Label, err)
		}
	}
	return t, nil
}

// target is a render target this device can encode a pass against.
type target interface {
	render.Target
	colorTexture() hal.Texture
	colorView() hal.TextureView
	depthView() hal.TextureView
	owner() *Device
}

// framebuffer is an offscreen color + depth target.
type framebuffer struct {
	color     *texture
	depth     *texture
	destroyed bool
}

func (f *framebuffer) Width() int                     { return f.color.w }
func (f *framebuffer) Height() int                    { return f.color.h }
func (f *framebuffer) Format() gputypes.TextureFormat { return f.color.format }
func (f *framebuffer) HasDepth() bool                 { return true }
func (f *framebuffer) Texture() render.Texture        { return f.color }
func (f *framebuffer) colorTexture() hal.Texture      { return f.color.tex }
func (f *framebuffer) colorView() hal.TextureView     { return f.color.view }
func (f *framebuffer) depthView() hal.TextureView     { return f.depth.view }
func (f *framebuffer) owner() *Device                 { return f.color.dev }

func (f *framebuffer) Destroy() {
	if f.destroyed {
		return
	}
	f.destroyed = true
	f.color.destroy()
	f.depth.destroy()
}

func (d *Device) CreateFramebuffer(label string, width, height int) (render.Framebuffer, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("halgpu: framebuffer %q: invalid size %dx%d", label, width, height)
	}
	color, err := d.newTexture(label+"-color", width, height, d.fbFmt,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopySrc)
	if err != nil {
		return nil, fmt.Errorf("halgpu: framebuffer %q color: %w", label, err)
	}
	color.owned = true
	depth, err := d.newTexture(label+"-depth", width, height, gputypes.TextureFormatDepth32Float,
		gputypes.TextureUsageRenderAttachment)
	if err != nil {
		color.destroy()
		return nil, fmt.Errorf("halgpu: framebuffer %q depth: %w", label, err)
	}
	depth.owned = true
	slogger().Debug("halgpu: framebuffer created", "label", label, "width", width, "height", height)
	return &framebuffer{color: color, depth: depth}, nil
}

// bytesPerPixel returns the texel size of the formats this device uploads,
// renders to and reads back.
func bytesPerPixel(f gputypes.TextureFormat) (int, error) {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4, nil
	case gputypes.TextureFormatRGBA16Float:
		return 8, nil
	case gputypes.TextureFormatRGBA32Float:
		return 16, nil
	}
	return 0, fmt.Errorf("halgpu: unsupported texture format %s", f)
}

// filterable reports whether f can be sampled with a filtering sampler
// without extensions.
func filterable(f gputypes.TextureFormat) bool {
	return f != gputypes.TextureFormatRGBA32Float
}

// sampleKey describes the sample types of a list of textures, one letter
// per texture: f filterable, u unfilterable.
func sampleKey(textures []render.TextureBinding) string {
	b := make([]byte, len(textures))
	for i, tb := range textures {
		b[i] = 'f'
		if tb.Texture != nil && !filterable(tb.Texture.Format()) {
			b[i] = 'u'
		}
	}
	return string(b)
}

// sortedNames is used in error messages.
func sortedNames(m map[string]bool) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
