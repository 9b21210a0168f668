package halgpu

import "github.com/gogpu/gputypes"

// Option configures Open, FromProvider and New.
type Option func(*options)

type options struct {
	label            string
	validate         bool
	surfaceFormat    gputypes.TextureFormat
	framebufferFmt   gputypes.TextureFormat
	backend          gputypes.Backend
	backendSpecified bool
}

func defaultOptions() options {
	return options{
		label:         "p5",
		validate:      true,
		surfaceFormat: gputypes.TextureFormatBGRA8Unorm,
	}
}

// WithLabel prefixes the debug labels of every GPU object.
func WithLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.label = label
		}
	}
}

// WithShaderValidation enables naga validation of WGSL before a shader
// module is created. On by default.
func WithShaderValidation(enabled bool) Option {
	return func(o *options) { o.validate = enabled }
}

// WithSurfaceFormat sets the color format of swapchain targets.
// The default is BGRA8Unorm.
func WithSurfaceFormat(format gputypes.TextureFormat) Option {
	return func(o *options) { o.surfaceFormat = format }
}

// WithFramebufferFormat sets the color format of offscreen framebuffers.
// Supported: RGBA16Float, RGBA32Float, RGBA8Unorm.
func WithFramebufferFormat(format gputypes.TextureFormat) Option {
	return func(o *options) { o.framebufferFmt = format }
}

// WithBackend restricts Open to one hal backend.
func WithBackend(b gputypes.Backend) Option {
	return func(o *options) {
		o.backend = b
		o.backendSpecified = true
	}
}
