package halgpu

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/p5/render"
)

// pipelineKey is everything a render pipeline depends on.
type pipelineKey struct {
	program      uint64
	topology     gputypes.PrimitiveTopology
	blend        gputypes.BlendState
	depthWrite   bool
	depthCompare gputypes.CompareFunction
	colorFormat  gputypes.TextureFormat
	hasDepth     bool
	samples      string
}

// hash computes an FNV-1a hash of the key.
func (k *pipelineKey) hash() uint64 {
	h := fnv.New64a()
	hashWriteUint64(h, k.program)
	hashWriteUint32(h, uint32(k.topology))

	hashWriteUint32(h, uint32(k.blend.Color.SrcFactor))
	hashWriteUint32(h, uint32(k.blend.Color.DstFactor))
	hashWriteUint32(h, uint32(k.blend.Color.Operation))
	hashWriteUint32(h, uint32(k.blend.Alpha.SrcFactor))
	hashWriteUint32(h, uint32(k.blend.Alpha.DstFactor))
	hashWriteUint32(h, uint32(k.blend.Alpha.Operation))

	hashWriteBool(h, k.depthWrite)
	hashWriteUint32(h, uint32(k.depthCompare))
	hashWriteUint32(h, uint32(k.colorFormat))
	hashWriteBool(h, k.hasDepth)
	hashWriteString(h, k.samples)
	return h.Sum64()
}

type cachedPipeline struct {
	key      pipelineKey
	pipeline hal.RenderPipeline
}

// pipelineCache caches render pipelines by key hash. Keys whose hashes
// collide share a bucket.
//
// It is safe for concurrent use: lookups take a read lock, creation takes
// the write lock and checks again.
type pipelineCache struct {
	mu      sync.RWMutex
	entries map[uint64][]*cachedPipeline
	hash    func(*pipelineKey) uint64

	hits   uint64
	misses uint64
}

func newPipelineCache() *pipelineCache {
	return &pipelineCache{
		entries: make(map[uint64][]*cachedPipeline),
		hash:    (*pipelineKey).hash,
	}
}

// lookup finds key in its bucket. The caller holds c.mu.
func (c *pipelineCache) lookup(h uint64, key pipelineKey) (hal.RenderPipeline, bool) {
	for _, e := range c.entries[h] {
		if e.key == key {
			return e.pipeline, true
		}
	}
	return nil, false
}

// getOrCreate returns the cached pipeline for key, calling create on a miss.
func (c *pipelineCache) getOrCreate(key pipelineKey, create func() (hal.RenderPipeline, error)) (hal.RenderPipeline, error) {
	h := c.hash(&key)

	c.mu.RLock()
	if p, ok := c.lookup(h, key); ok {
		c.mu.RUnlock()
		atomic.AddUint64(&c.hits, 1)
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.lookup(h, key); ok {
		atomic.AddUint64(&c.hits, 1)
		return p, nil
	}

	pipeline, err := create()
	if err != nil {
		return nil, err
	}
	c.entries[h] = append(c.entries[h], &cachedPipeline{key: key, pipeline: pipeline})
	atomic.AddUint64(&c.misses, 1)
	return pipeline, nil
}

// Stats returns the number of cache hits and misses.
func (c *pipelineCache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}

// Len returns the number of cached pipelines.
func (c *pipelineCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, bucket := range c.entries {
		n += len(bucket)
	}
	return n
}

// Evict destroys the pipelines built from program.
func (c *pipelineCache) Evict(dev hal.Device, program uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for h, bucket := range c.entries {
		kept := bucket[:0]
		for _, e := range bucket {
			if e.key.program == program {
				dev.DestroyRenderPipeline(e.pipeline)
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == 0 {
			delete(c.entries, h)
		} else {
			c.entries[h] = kept
		}
	}
}

// Destroy destroys every cached pipeline.
func (c *pipelineCache) Destroy(dev hal.Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, bucket := range c.entries {
		for _, e := range bucket {
			dev.DestroyRenderPipeline(e.pipeline)
		}
	}
	c.entries = make(map[uint64][]*cachedPipeline)
}

// pipeline returns the render pipeline for drawing with p onto t.
func (d *Device) pipeline(p *program, layout *programLayout, t target, topology gputypes.PrimitiveTopology, params render.DrawParams, samples string) (hal.RenderPipeline, error) {
	key := pipelineKey{
		program:      p.id,
		topology:     topology,
		blend:        params.Blend,
		depthWrite:   params.DepthWrite,
		depthCompare: params.DepthCompare,
		colorFormat:  t.Format(),
		hasDepth:     t.HasDepth(),
		samples:      samples,
	}
	return d.pipelines.getOrCreate(key, func() (hal.RenderPipeline, error) {
		blend := key.blend
		desc := &hal.RenderPipelineDescriptor{
			Label:  d.label(p.label + "-pipeline"),
			Layout: layout.pipeline,
			Vertex: hal.VertexState{
				Module:     p.module,
				EntryPoint: "vs_main",
				Buffers:    render.VertexLayout(),
			},
			Primitive: gputypes.PrimitiveState{
				Topology:  topology,
				FrontFace: gputypes.FrontFaceCCW,
				CullMode:  gputypes.CullModeNone,
			},
			Multisample: gputypes.DefaultMultisampleState(),
			Fragment: &hal.FragmentState{
				Module:     p.module,
				EntryPoint: "fs_main",
				Targets: []gputypes.ColorTargetState{{
					Format:    key.colorFormat,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				}},
			},
		}
		if topology == gputypes.PrimitiveTopologyLineStrip || topology == gputypes.PrimitiveTopologyTriangleStrip {
			f := gputypes.IndexFormatUint32
			desc.Primitive.StripIndexFormat = &f
		}
		if key.hasDepth {
			desc.DepthStencil = &hal.DepthStencilState{
				Format:            gputypes.TextureFormatDepth32Float,
				DepthWriteEnabled: key.depthWrite,
				DepthCompare:      key.depthCompare,
				StencilFront:      stencilKeep(),
				StencilBack:       stencilKeep(),
			}
		}
		slogger().Debug("halgpu: pipeline created",
			"program", p.label,
			"topology", topology.String(),
			"format", key.colorFormat.String())
		return d.dev.CreateRenderPipeline(desc)
	})
}

func stencilKeep() hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
}

func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteString(h hash.Hash64, s string) {
	hashWriteUint32(h, uint32(len(s)))
	_, _ = h.Write([]byte(s))
}

func hashWriteBool(h hash.Hash64, v bool) {
	if v {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
}
