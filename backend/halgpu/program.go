package halgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/p5/internal/shader"
	"github.com/gogpu/p5/render"
)

// program is a compiled WGSL module with vs_main and fs_main entry points.
type program struct {
	dev       *Device
	id        uint64
	label     string
	module    hal.ShaderModule
	layout    string
	uniformSz int
	textures  []string
	destroyed bool

	// layouts holds a bind group layout and pipeline layout per texture
	// sample-type combination.
	layouts map[string]*programLayout
}

type programLayout struct {
	bindGroup hal.BindGroupLayout
	pipeline  hal.PipelineLayout
}

func (p *program) Label() string { return p.label }

func (p *program) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	d := p.dev
	d.pipelines.Evict(d.dev, p.id)
	d.release(func() {
		for _, l := range p.layouts {
			d.dev.DestroyPipelineLayout(l.pipeline)
			d.dev.DestroyBindGroupLayout(l.bindGroup)
		}
		d.dev.DestroyShaderModule(p.module)
	})
}

func (d *Device) CompileProgram(desc render.ProgramDesc) (render.Program, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if err := desc.Uniforms.Validate(); err != nil {
		return nil, fmt.Errorf("halgpu: program %q: %w", desc.Label, err)
	}
	if d.opts.validate {
		if _, err := shader.Compile(desc.Source); err != nil {
			return nil, fmt.Errorf("halgpu: program %q: %w", desc.Label, err)
		}
	}
	module, err := d.dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  d.label(desc.Label),
		Source: hal.ShaderSource{WGSL: desc.Source},
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: program %q: create shader module: %w", desc.Label, err)
	}
	slogger().Debug("halgpu: program compiled", "label", desc.Label, "uniforms", desc.Uniforms.Layout())
	return &program{
		dev:       d,
		id:        d.newID(),
		label:     desc.Label,
		module:    module,
		layout:    desc.Uniforms.Layout(),
		uniformSz: desc.Uniforms.Size(),
		textures:  append([]string(nil), desc.Textures...),
		layouts:   make(map[string]*programLayout),
	}, nil
}

// layoutFor returns the layouts for the given sample types, creating them on
// first use. Binding 0 is the uniform buffer; texture i uses bindings 1+2i
// (texture) and 2+2i (sampler).
func (p *program) layoutFor(samples string) (*programLayout, error) {
	if l, ok := p.layouts[samples]; ok {
		return l, nil
	}
	entries := []gputypes.BindGroupLayoutEntry{{
		Binding:    0,
		Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
		Buffer: &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeUniform,
			MinBindingSize: uint64(p.uniformSz),
		},
	}}
	for i := range p.textures {
		sampleType := gputypes.TextureSampleTypeFloat
		samplerType := gputypes.SamplerBindingTypeFiltering
		if samples[i] == 'u' {
			sampleType = gputypes.TextureSampleTypeUnfilterableFloat
			samplerType = gputypes.SamplerBindingTypeNonFiltering
		}
		entries = append(entries,
			gputypes.BindGroupLayoutEntry{
				Binding:    uint32(1 + 2*i),
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    sampleType,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			gputypes.BindGroupLayoutEntry{
				Binding:    uint32(2 + 2*i),
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: samplerType},
			},
		)
	}

	d := p.dev
	bgl, err := d.dev.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   d.label(p.label + "-bgl"),
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}
	pl, err := d.dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            d.label(p.label + "-layout"),
		BindGroupLayouts: []hal.BindGroupLayout{bgl},
	})
	if err != nil {
		d.dev.DestroyBindGroupLayout(bgl)
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}
	l := &programLayout{bindGroup: bgl, pipeline: pl}
	p.layouts[samples] = l
	return l, nil
}
