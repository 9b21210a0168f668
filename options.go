package p5

import "github.com/gogpu/p5/surface"

// Option configures a Screen during creation.
//
// Example:
//
//	dev, _ := halgpu.Open()
//	screen, err := p5.NewScreen(dev,
//	    p5.WithSize(1024, 768),
//	    p5.WithPreserveAspectRatio(true),
//	)
type Option func(*options)

type options struct {
	width, height  int
	title          string
	fullscreen     bool
	vsync          bool
	preserveAspect bool
	frameRate      int
	background     Color

	surface        surface.Surface
	surfaceBackend string
	window         *surface.WindowConfig
}

func defaultOptions() options {
	return options{
		width:      800,
		height:     600,
		title:      "p5",
		vsync:      true,
		frameRate:  60,
		background: DefaultBackground,
	}
}

// WithSize sets the window or headless surface size. Ignored when
// WithSurface supplies the surface.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width, o.height = width, height
	}
}

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

// WithFullscreen requests a fullscreen window.
func WithFullscreen(fullscreen bool) Option {
	return func(o *options) { o.fullscreen = fullscreen }
}

// WithVSync makes Reveal wait for the display refresh. On by default.
func WithVSync(vsync bool) Option {
	return func(o *options) { o.vsync = vsync }
}

// WithPreserveAspectRatio corrects shape coordinates so that shapes keep
// their proportions on non-square framebuffers.
func WithPreserveAspectRatio(preserve bool) Option {
	return func(o *options) { o.preserveAspect = preserve }
}

// WithFrameRate records the target frame rate. The default is 60.
func WithFrameRate(fps int) Option {
	return func(o *options) {
		if fps > 0 {
			o.frameRate = fps
		}
	}
}

// WithBackground sets the initial background color.
func WithBackground(c Color) Option {
	return func(o *options) { o.background = c }
}

// WithSurface draws to s instead of opening one. The Screen takes
// ownership and closes s on Close.
func WithSurface(s surface.Surface) Option {
	return func(o *options) { o.surface = s }
}

// WithWindow opens a windowed surface on a host window.
func WithWindow(cfg *surface.WindowConfig) Option {
	return func(o *options) { o.window = cfg }
}

// WithSurfaceBackend opens the named surface backend ("window" or
// "headless"). By default the first available backend is used.
func WithSurfaceBackend(name string) Option {
	return func(o *options) { o.surfaceBackend = name }
}
