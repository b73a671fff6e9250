package canvas

import (
	"runtime"

	"github.com/gogpu/canvas/text"
)

// Option configures a Rasterizer during creation.
// Use functional options to customize Rasterizer behavior.
//
// Example:
//
//	// Default software rendering
//	r, err := canvas.NewRasterizer()
//
//	// Serial repaint with a custom font collaborator
//	r, err := canvas.NewRasterizer(canvas.WithWorkers(1), canvas.WithFontRasterizer(fonts))
type Option func(*options)

// options holds optional configuration for Rasterizer creation.
type options struct {
	backend    BackendKind
	device     DeviceHandle
	imageBytes int64
	glyphBytes int64
	fonts      text.Rasterizer
	atlas      *text.Atlas
	workers    int
	autoDamage bool
	pool       *FramePool
	background Color
}

// defaultOptions returns the default rasterizer options.
func defaultOptions() options {
	return options{
		backend:    BackendCPU,
		imageBytes: DefaultImageCacheBytes,
		glyphBytes: text.DefaultAtlasBytes,
		workers:    runtime.GOMAXPROCS(0),
		autoDamage: true,
		background: Transparent,
	}
}

// WithBackend selects the rendering backend. Only BackendCPU is
// available; NewRasterizer rejects any other kind.
func WithBackend(k BackendKind) Option {
	return func(o *options) {
		o.backend = k
	}
}

// WithDevice supplies the host GPU device. Its surface format becomes the
// backend's upload format.
func WithDevice(d DeviceHandle) Option {
	return func(o *options) {
		o.device = d
	}
}

// WithImageCacheBytes sets the budget for pre-scaled images.
// Non-positive values select the default.
func WithImageCacheBytes(n int64) Option {
	return func(o *options) {
		o.imageBytes = n
	}
}

// WithGlyphCacheBytes sets the glyph atlas budget.
// Non-positive values select the default.
func WithGlyphCacheBytes(n int64) Option {
	return func(o *options) {
		o.glyphBytes = n
	}
}

// WithFontRasterizer sets the font collaborator behind the glyph atlas.
// The default is the sfnt rasterizer with the Go Regular font.
func WithFontRasterizer(r text.Rasterizer) Option {
	return func(o *options) {
		o.fonts = r
	}
}

// WithAtlas shares an existing glyph atlas, for example between the
// surfaces of one window. It overrides WithFontRasterizer and
// WithGlyphCacheBytes.
func WithAtlas(a *text.Atlas) Option {
	return func(o *options) {
		o.atlas = a
	}
}

// WithWorkers bounds the goroutines repainting tiles. 1 repaints
// serially; non-positive values select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithAutoDamage enables or disables diffing each frame's display list
// against the previous one to find damage.
func WithAutoDamage(on bool) Option {
	return func(o *options) {
		o.autoDamage = on
	}
}

// WithFramePool sets the pool frames are taken from, so several
// rasterizers can share buffers.
func WithFramePool(p *FramePool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// WithBackground sets the color tiles are cleared to when a frame
// records no Clear.
func WithBackground(c Color) Option {
	return func(o *options) {
		o.background = c
	}
}
