// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halgpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/p5/render"
)

var (
	// ErrNoAdapter is returned by Open when no backend yields a device.
	ErrNoAdapter = errors.New("halgpu: no usable GPU adapter")

	// ErrNoHalDevice is returned by FromProvider for providers that do not
	// expose hal objects.
	ErrNoHalDevice = errors.New("halgpu: provider does not expose HAL types")

	// ErrDestroyed is returned for operations on a destroyed device or resource.
	ErrDestroyed = errors.New("halgpu: use after destroy")

	// ErrForeignResource is returned when a resource from another device
	// is passed in.
	ErrForeignResource = errors.New("halgpu: resource does not belong to this device")
)

// backendPriority is the order Open tries hal backends in.
var backendPriority = []gputypes.Backend{
	gputypes.BackendVulkan,
	gputypes.BackendMetal,
	gputypes.BackendDX12,
	gputypes.BackendGL,
	gputypes.BackendEmpty,
}

// Device is a render.Device backed by a hal device and queue.
//
// Resource creation and drawing happen on one goroutine. The pipeline cache
// is safe for concurrent use.
type Device struct {
	dev   hal.Device
	queue hal.Queue
	info  gputypes.AdapterInfo

	// instance is set when Open created the device.
	instance hal.Instance
	owned    bool

	opts    options
	fbFmt   gputypes.TextureFormat
	nextID  uint64
	samples samplers

	pipelines *pipelineCache

	mu         sync.Mutex
	pending    []pendingRelease
	lastSubmit uint64
	destroyed  bool
}

type samplers struct {
	linear  hal.Sampler
	nearest hal.Sampler
}

// pendingRelease frees per-draw objects once the GPU finished the
// submission that used them.
type pendingRelease struct {
	submission uint64
	release    func()
}

// Open creates a device on the best available hal backend.
func Open(opts ...Option) (*Device, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	order := backendPriority
	if o.backendSpecified {
		order = []gputypes.Backend{o.backend}
	}

	var errs []error
	for _, variant := range order {
		backend, ok := hal.GetBackend(variant)
		if !ok {
			continue
		}
		d, err := openBackend(backend, o)
		if err != nil {
			slogger().Warn("halgpu: backend unusable", "backend", variant.String(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", variant, err))
			continue
		}
		return d, nil
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: no hal backend registered", ErrNoAdapter)
	}
	return nil, fmt.Errorf("%w: %w", ErrNoAdapter, errors.Join(errs...))
}

func openBackend(backend hal.Backend, o options) (*Device, error) {
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, errors.New("no adapters")
	}

	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	info := selected.Info
	info.Backend = backend.Variant()
	cpu := info.DeviceType == gputypes.DeviceTypeCPU || info.Backend == gputypes.BackendEmpty
	d, err := newDevice(openDev.Device, openDev.Queue, info, cpu, o)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.instance = instance
	d.owned = true
	slogger().Info("halgpu: device opened",
		"backend", info.Backend.String(),
		"adapter", info.Name,
		"framebuffer", d.fbFmt.String())
	return d, nil
}

// FromProvider wraps the hal device of a host such as a gogpu window. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue. The host keeps ownership of the device.
func FromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHalDevice
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHalDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHalDevice)
	}

	o := defaultOptions()
	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		o.surfaceFormat = f
	}
	for _, opt := range opts {
		opt(&o)
	}
	pinfo := provider.AdapterInfo()
	info := gputypes.AdapterInfo{Name: pinfo.Name}
	cpu := pinfo.Type == gpucontext.AdapterTypeSoftware
	if cpu {
		info.DeviceType = gputypes.DeviceTypeCPU
	}
	return newDevice(device, queue, info, cpu, o)
}

// New wraps an existing hal device and queue. The caller keeps ownership.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Device, error) {
	if device == nil || queue == nil {
		return nil, errors.New("halgpu: nil device or queue")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newDevice(device, queue, gputypes.AdapterInfo{Name: "external"}, false, o)
}

func newDevice(dev hal.Device, queue hal.Queue, info gputypes.AdapterInfo, cpu bool, o options) (*Device, error) {
	d := &Device{
		dev:       dev,
		queue:     queue,
		info:      info,
		opts:      o,
		pipelines: newPipelineCache(),
	}

	d.fbFmt = o.framebufferFmt
	if d.fbFmt == gputypes.TextureFormatUndefined {
		d.fbFmt = gputypes.TextureFormatRGBA16Float
		if cpu {
			d.fbFmt = gputypes.TextureFormatRGBA8Unorm
		}
	}
	if _, err := bytesPerPixel(d.fbFmt); err != nil {
		return nil, err
	}

	var err error
	d.samples.linear, err = dev.CreateSampler(&hal.SamplerDescriptor{
		Label:        d.label("sampler-linear"),
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
	})
	if err != nil {
		return nil, fmt.Errorf("halgpu: create sampler: %w", err)
	}
	d.samples.nearest, err = dev.CreateSampler(&hal.SamplerDescriptor{
		Label:        d.label("sampler-nearest"),
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
	})
	if err != nil {
		dev.DestroySampler(d.samples.linear)
		return nil, fmt.Errorf("halgpu: create sampler: %w", err)
	}
	return d, nil
}

// AdapterInfo describes the adapter the device runs on.
func (d *Device) AdapterInfo() gputypes.AdapterInfo { return d.info }

// FramebufferFormat returns the color format of offscreen framebuffers.
func (d *Device) FramebufferFormat() gputypes.TextureFormat { return d.fbFmt }

// HalDevice returns the underlying hal device.
func (d *Device) HalDevice() any { return d.dev }

// HalQueue returns the underlying hal queue.
func (d *Device) HalQueue() any { return d.queue }

// SetLogger routes the package logger to l.
func (d *Device) SetLogger(l *slog.Logger) { SetLogger(l) }

// PipelineStats reports pipeline cache hits and misses.
func (d *Device) PipelineStats() (hits, misses uint64) { return d.pipelines.Stats() }

func (d *Device) label(name string) string { return d.opts.label + "-" + name }

func (d *Device) newID() uint64 {
	d.nextID++
	return d.nextID
}

func (d *Device) check() error {
	if d.destroyed {
		return ErrDestroyed
	}
	return nil
}

// submit ends the encoder, submits it and schedules release to run once the
// submission completed.
func (d *Device) submit(encoder hal.CommandEncoder, release func()) error {
	cmd, err := encoder.EndEncoding()
	if err != nil {
		if release != nil {
			release()
		}
		return fmt.Errorf("end encoding: %w", err)
	}
	idx, err := d.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		d.dev.FreeCommandBuffer(cmd)
		if release != nil {
			release()
		}
		return fmt.Errorf("submit: %w", err)
	}

	d.mu.Lock()
	d.lastSubmit = idx
	d.pending = append(d.pending, pendingRelease{submission: idx, release: func() {
		d.dev.FreeCommandBuffer(cmd)
		if release != nil {
			release()
		}
	}})
	d.mu.Unlock()
	d.collect()
	return nil
}

// collect runs the releases whose submission completed.
func (d *Device) collect() {
	done := d.queue.PollCompleted()
	d.mu.Lock()
	kept := d.pending[:0]
	var ready []func()
	for _, p := range d.pending {
		if p.submission <= done {
			ready = append(ready, p.release)
		} else {
			kept = append(kept, p)
		}
	}
	d.pending = kept
	d.mu.Unlock()
	for _, r := range ready {
		r()
	}
}

// flush waits for the GPU and runs every pending release.
func (d *Device) flush() error {
	err := d.dev.WaitIdle()
	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()
	for _, p := range pending {
		p.release()
	}
	return err
}

func (d *Device) newEncoder(label string) (hal.CommandEncoder, error) {
	encoder, err := d.dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: d.label(label)})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(d.label(label)); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	return encoder, nil
}

// Destroy waits for the GPU, releases cached pipelines and samplers and,
// when Open created the device, the device itself. Resources created from
// the device must be destroyed first.
func (d *Device) Destroy() {
	if d.destroyed {
		return
	}
	if err := d.flush(); err != nil {
		slogger().Warn("halgpu: wait idle on destroy", "error", err)
	}
	d.pipelines.Destroy(d.dev)
	d.dev.DestroySampler(d.samples.linear)
	d.dev.DestroySampler(d.samples.nearest)
	d.destroyed = true
	if d.owned {
		d.dev.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
}

var _ render.Device = (*Device)(nil)
