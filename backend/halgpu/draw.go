// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/p5/render"
)

// copyPitchAlignment is the WebGPU row alignment of texture-to-buffer copies.
const copyPitchAlignment = 256

func (d *Device) targetOf(t render.Target) (target, error) {
	tg, ok := t.(target)
	if !ok || tg.owner() != d {
		return nil, fmt.Errorf("%w: target %T", ErrForeignResource, t)
	}
	if fb, ok := tg.(*framebuffer); ok && fb.destroyed {
		return nil, ErrDestroyed
	}
	return tg, nil
}

func (d *Device) bufferOf(b render.Buffer) (*buffer, error) {
	buf, ok := b.(*buffer)
	if !ok || buf.dev != d {
		return nil, fmt.Errorf("%w: buffer %T", ErrForeignResource, b)
	}
	if buf.destroyed {
		return nil, ErrDestroyed
	}
	return buf, nil
}

// Clear fills the color attachment of t with c and resets its depth to 1.
func (d *Device) Clear(t render.Target, c gputypes.Color) error {
	if err := d.check(); err != nil {
		return err
	}
	tg, err := d.targetOf(t)
	if err != nil {
		return err
	}
	encoder, err := d.newEncoder("clear")
	if err != nil {
		return fmt.Errorf("halgpu: clear: %w", err)
	}
	pass := encoder.BeginRenderPass(passDescriptor(d.label("clear-pass"), tg, gputypes.LoadOpClear, c))
	pass.End()
	if err := d.submit(encoder, nil); err != nil {
		return fmt.Errorf("halgpu: clear: %w", err)
	}
	return nil
}

func passDescriptor(label string, tg target, load gputypes.LoadOp, clear gputypes.Color) *hal.RenderPassDescriptor {
	desc := &hal.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       tg.colorView(),
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
	}
	if tg.HasDepth() {
		desc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:            tg.depthView(),
			DepthLoadOp:     load,
			DepthStoreOp:    gputypes.StoreOpStore,
			DepthClearValue: 1.0,
			StencilLoadOp:   gputypes.LoadOpLoad,
			StencilStoreOp:  gputypes.StoreOpStore,
			StencilReadOnly: true,
		}
	}
	return desc
}

// Draw encodes one draw call in its own render pass and submits it.
func (d *Device) Draw(t render.Target, call *render.DrawCall) error {
	if err := d.check(); err != nil {
		return err
	}
	if call == nil {
		return errors.New("halgpu: nil draw call")
	}
	tg, err := d.targetOf(t)
	if err != nil {
		return err
	}
	p, ok := call.Program.(*program)
	if !ok || p.dev != d {
		return fmt.Errorf("%w: program %T", ErrForeignResource, call.Program)
	}
	if p.destroyed {
		return fmt.Errorf("program %q: %w", p.label, ErrDestroyed)
	}
	vb, err := d.bufferOf(call.Vertices)
	if err != nil {
		return fmt.Errorf("halgpu: draw %q vertices: %w", call.Label, err)
	}
	if vb.n == 0 {
		return nil
	}
	if got := call.Uniforms.Layout(); got != p.layout {
		return fmt.Errorf("halgpu: draw %q: uniform layout %q does not match program %q layout %q",
			call.Label, got, p.label, p.layout)
	}
	textures, err := d.orderTextures(p, call.Textures, tg)
	if err != nil {
		return fmt.Errorf("halgpu: draw %q: %w", call.Label, err)
	}

	asm := render.Assemble(call.Rule, vb.n)
	var (
		indexBuf   hal.Buffer
		indexCount int
	)
	switch {
	case call.Indices != nil:
		ib, err := d.bufferOf(call.Indices)
		if err != nil {
			return fmt.Errorf("halgpu: draw %q indices: %w", call.Label, err)
		}
		indexBuf, indexCount = ib.buf, ib.n
	case asm.Indices != nil:
		e, err := vb.indicesFor(call.Rule, asm.Indices)
		if err != nil {
			return fmt.Errorf("halgpu: draw %q expand indices: %w", call.Label, err)
		}
		indexBuf, indexCount = e.buf, e.n
	}
	if indexBuf != nil && indexCount == 0 {
		return nil
	}

	bindings := make([]render.TextureBinding, len(textures))
	for i, tex := range textures {
		bindings[i] = render.TextureBinding{Name: p.textures[i], Texture: tex}
	}
	samples := sampleKey(bindings)

	layout, err := p.layoutFor(samples)
	if err != nil {
		return fmt.Errorf("halgpu: draw %q: %w", call.Label, err)
	}
	pipe, err := d.pipeline(p, layout, tg, asm.Topology, call.Params, samples)
	if err != nil {
		return fmt.Errorf("halgpu: draw %q: create pipeline: %w", call.Label, err)
	}

	ubuf, err := d.createBuffer("uniforms", call.Uniforms.Pack(), gputypes.BufferUsageUniform)
	if err != nil {
		return fmt.Errorf("halgpu: draw %q uniforms: %w", call.Label, err)
	}
	entries := []gputypes.BindGroupEntry{{
		Binding:  0,
		Resource: gputypes.BufferBinding{Buffer: ubuf.NativeHandle(), Size: uint64(p.uniformSz)},
	}}
	for i, tex := range textures {
		sampler := d.samples.linear
		if samples[i] == 'u' {
			sampler = d.samples.nearest
		}
		entries = append(entries,
			gputypes.BindGroupEntry{
				Binding:  uint32(1 + 2*i),
				Resource: gputypes.TextureViewBinding{TextureView: tex.view.NativeHandle()},
			},
			gputypes.BindGroupEntry{
				Binding:  uint32(2 + 2*i),
				Resource: gputypes.SamplerBinding{Sampler: sampler.NativeHandle()},
			},
		)
	}
	group, err := d.dev.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   d.label(call.Label + "-bind-group"),
		Layout:  layout.bindGroup,
		Entries: entries,
	})
	if err != nil {
		d.dev.DestroyBuffer(ubuf)
		return fmt.Errorf("halgpu: draw %q: create bind group: %w", call.Label, err)
	}
	release := func() {
		d.dev.DestroyBindGroup(group)
		d.dev.DestroyBuffer(ubuf)
	}

	encoder, err := d.newEncoder("draw")
	if err != nil {
		release()
		return fmt.Errorf("halgpu: draw %q: %w", call.Label, err)
	}

	// Framebuffer colors stay render attachments between passes; switch the
	// sampled ones over for the duration of this pass.
	sampled := sampledAttachments(textures)
	transition(encoder, sampled, gputypes.TextureUsageRenderAttachment, gputypes.TextureUsageTextureBinding)

	pass := encoder.BeginRenderPass(passDescriptor(d.label(call.Label+"-pass"), tg, gputypes.LoadOpLoad, gputypes.Color{}))
	pass.SetPipeline(pipe)
	pass.SetBindGroup(0, group, nil)
	pass.SetVertexBuffer(0, vb.buf, 0)
	if indexBuf != nil {
		pass.SetIndexBuffer(indexBuf, gputypes.IndexFormatUint32, 0)
		pass.DrawIndexed(uint32(indexCount), 1, 0, 0, 0)
	} else {
		pass.Draw(uint32(vb.n), 1, 0, 0)
	}
	pass.End()

	transition(encoder, sampled, gputypes.TextureUsageTextureBinding, gputypes.TextureUsageRenderAttachment)

	if err := d.submit(encoder, release); err != nil {
		return fmt.Errorf("halgpu: draw %q: %w", call.Label, err)
	}
	return nil
}

// orderTextures matches the bindings to the program's texture names.
func (d *Device) orderTextures(p *program, bindings []render.TextureBinding, tg target) ([]*texture, error) {
	byName := make(map[string]render.Texture, len(bindings))
	for _, b := range bindings {
		byName[b.Name] = b.Texture
	}
	out := make([]*texture, len(p.textures))
	missing := make(map[string]bool)
	for i, name := range p.textures {
		rt, ok := byName[name]
		if !ok || rt == nil {
			missing[name] = true
			continue
		}
		tex, ok := rt.(*texture)
		if !ok || tex.dev != d {
			return nil, fmt.Errorf("%w: texture %q is %T", ErrForeignResource, name, rt)
		}
		if tex.destroyed {
			return nil, fmt.Errorf("texture %q: %w", name, ErrDestroyed)
		}
		if fb, ok := tg.(*framebuffer); ok && fb.color == tex {
			return nil, fmt.Errorf("texture %q is the draw target", name)
		}
		out[i] = tex
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("program %q: no texture bound for %v", p.label, sortedNames(missing))
	}
	return out, nil
}

func sampledAttachments(textures []*texture) []hal.Texture {
	var out []hal.Texture
	for _, t := range textures {
		if t.owned {
			out = append(out, t.tex)
		}
	}
	return out
}

func transition(encoder hal.CommandEncoder, textures []hal.Texture, from, to gputypes.TextureUsage) {
	if len(textures) == 0 {
		return
	}
	barriers := make([]hal.TextureBarrier, len(textures))
	for i, t := range textures {
		barriers[i] = hal.TextureBarrier{
			Texture: t,
			Usage:   hal.TextureUsageTransition{OldUsage: from, NewUsage: to},
		}
	}
	encoder.TransitionTextures(barriers)
}

// ReadPixels copies the color attachment of fb to the CPU and converts it
// to float RGBA, top row first.
func (d *Device) ReadPixels(fb render.Framebuffer) (*render.Pixels, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	tg, err := d.targetOf(fb)
	if err != nil {
		return nil, err
	}
	f, ok := tg.(*framebuffer)
	if !ok {
		return nil, fmt.Errorf("%w: read back of %T", ErrForeignResource, fb)
	}

	w, h := uint32(f.Width()), uint32(f.Height())
	bpp, err := bytesPerPixel(f.Format())
	if err != nil {
		return nil, err
	}
	bytesPerRow := w * uint32(bpp)
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	size := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: d.label("readback-staging"),
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: read pixels: create staging buffer: %w", err)
	}
	defer d.dev.DestroyBuffer(staging)

	encoder, err := d.newEncoder("readback")
	if err != nil {
		return nil, fmt.Errorf("halgpu: read pixels: %w", err)
	}
	color := []hal.Texture{f.color.tex}
	transition(encoder, color, gputypes.TextureUsageRenderAttachment, gputypes.TextureUsageCopySrc)
	encoder.CopyTextureToBuffer(f.color.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: f.color.tex, MipLevel: 0, Aspect: gputypes.TextureAspectAll},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	transition(encoder, color, gputypes.TextureUsageCopySrc, gputypes.TextureUsageRenderAttachment)

	if err := d.submit(encoder, nil); err != nil {
		return nil, fmt.Errorf("halgpu: read pixels: %w", err)
	}
	if err := d.flush(); err != nil {
		return nil, fmt.Errorf("halgpu: read pixels: wait: %w", err)
	}

	mapping, err := d.dev.MapBuffer(staging, 0, size)
	if err != nil {
		return nil, fmt.Errorf("halgpu: read pixels: map: %w", err)
	}
	raw := make([]byte, size)
	copy(raw, unsafe.Slice((*byte)(mapping.Ptr), size))
	if err := d.dev.UnmapBuffer(staging); err != nil {
		slogger().Warn("halgpu: unmap staging buffer", "error", err)
	}

	px := &render.Pixels{Width: int(w), Height: int(h), Pix: make([]float32, int(w)*int(h)*4)}
	for y := 0; y < int(h); y++ {
		row := raw[y*int(alignedBytesPerRow) : y*int(alignedBytesPerRow)+int(bytesPerRow)]
		decodeRow(f.Format(), row, px.Pix[y*int(w)*4:(y+1)*int(w)*4])
	}
	return px, nil
}

// decodeRow converts one row of texels into float RGBA.
func decodeRow(format gputypes.TextureFormat, src []byte, dst []float32) {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm:
		for i := range dst {
			dst[i] = float32(src[i]) / 255
		}
	case gputypes.TextureFormatBGRA8Unorm:
		for i := 0; i+3 < len(dst); i += 4 {
			dst[i] = float32(src[i+2]) / 255
			dst[i+1] = float32(src[i+1]) / 255
			dst[i+2] = float32(src[i]) / 255
			dst[i+3] = float32(src[i+3]) / 255
		}
	case gputypes.TextureFormatRGBA16Float:
		for i := range dst {
			dst[i] = halfToFloat32(binary.LittleEndian.Uint16(src[i*2:]))
		}
	case gputypes.TextureFormatRGBA32Float:
		for i := range dst {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
		}
	}
}

// halfToFloat32 converts an IEEE 754 binary16 value.
func halfToFloat32(h uint16) float32 {
	sign := uint32(h>>15) << 31
	exp := uint32(h>>10) & 0x1f
	mant := uint32(h) & 0x3ff

	switch {
	case exp == 0 && mant == 0:
		return math.Float32frombits(sign)
	case exp == 0:
		// subnormal: normalize the mantissa
		e := uint32(127 - 15 + 1)
		for mant&0x400 == 0 {
			mant <<= 1
			e--
		}
		mant &= 0x3ff
		return math.Float32frombits(sign | e<<23 | mant<<13)
	case exp == 0x1f:
		return math.Float32frombits(sign | 0xff<<23 | mant<<13)
	}
	return math.Float32frombits(sign | (exp+127-15)<<23 | mant<<13)
}
