package canvas

import (
	"context"
	"fmt"
	"image"

	"github.com/gogpu/canvas/internal/parallel"
	"github.com/gogpu/canvas/text"
)

// rasterState is the lifecycle state of a Rasterizer.
type rasterState uint8

const (
	stateUninitialized rasterState = iota
	stateReady
	stateRecording
	stateCleanedUp
)

// Rasterizer renders display lists into a damage-tracked tile store.
//
// Lifecycle:
//
//	Init -> { BeginFrame -> record on the Context -> EndFrame }* -> Cleanup
//
// Resize may be called between frames and discards all pixel content.
// Init may be called again after Cleanup.
//
// Each frame repaints only the tiles touched by the frame's damage: the
// union of AddDamage calls and, with automatic damage on, of every item
// that differs from the previous frame. A frame with no damage reported
// at all repaints the whole surface.
//
// A Rasterizer is not safe for concurrent use. EndFrame repaints tiles on
// several goroutines internally.
type Rasterizer struct {
	opts    options
	backend Backend
	state   rasterState

	width, height int
	scale         float64

	tiles  *parallel.TileStore
	damage parallel.DamageRegion
	list   *DisplayList
	prev   []itemSig

	atlas  *text.Atlas
	images *imageCache
	pool   *FramePool

	frames     uint64
	lastDamage image.Rectangle
	lastDirty  int
}

// itemSig identifies the visual output of one display position.
type itemSig struct {
	key CacheKey
	pix image.Rectangle
}

// NewRasterizer creates an uninitialized rasterizer.
// It returns ErrBackendNotAvailable for any backend other than BackendCPU.
func NewRasterizer(opts ...Option) (*Rasterizer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b, err := SelectBackend(o.backend, o.device)
	if err != nil {
		return nil, err
	}

	atlas := o.atlas
	if atlas == nil {
		fonts := o.fonts
		if fonts == nil {
			fonts = text.NewDefaultRasterizer()
		}
		atlas = text.NewAtlas(fonts, o.glyphBytes)
	}
	pool := o.pool
	if pool == nil {
		pool = NewFramePool()
	}

	return &Rasterizer{
		opts:    o,
		backend: b,
		list:    NewDisplayList(),
		atlas:   atlas,
		images:  newImageCache(o.imageBytes),
		pool:    pool,
	}, nil
}

// Init allocates the tile store for a width x height device-pixel
// surface at the given scale factor.
func (r *Rasterizer) Init(width, height int, scale float64) error {
	if r.state == stateRecording {
		return ErrFrameInProgress
	}
	if err := validSize(width, height, scale); err != nil {
		return err
	}
	r.allocate(width, height, scale)
	r.state = stateReady
	Logger().Info("canvas: rasterizer initialized",
		"width", width, "height", height, "scale", scale, "backend", r.backend.Kind(),
		"adapter", r.backend.AdapterInfo().Name)
	return nil
}

// Resize reallocates the tile store, losing all pixel content, and
// clears the display list. The next frame repaints the whole surface.
func (r *Rasterizer) Resize(width, height int, scale float64) error {
	switch r.state {
	case stateRecording:
		return ErrFrameInProgress
	case stateUninitialized, stateCleanedUp:
		return ErrNotInitialized
	}
	if err := validSize(width, height, scale); err != nil {
		return err
	}
	r.allocate(width, height, scale)
	Logger().Info("canvas: rasterizer resized", "width", width, "height", height, "scale", scale)
	return nil
}

func (r *Rasterizer) allocate(width, height int, scale float64) {
	if r.tiles != nil {
		r.tiles.Close()
	}
	r.tiles = parallel.NewTileStore(width, height)
	r.width, r.height, r.scale = width, height, scale
	r.list.Reset()
	r.prev = nil
	r.damage.Reset()
	r.damage.Unprime()
}

func validSize(width, height int, scale float64) error {
	if width <= 0 || height <= 0 || !(scale > 0) || !finite(scale) {
		return fmt.Errorf("%w: %dx%d at scale %v", ErrInvalidSize, width, height, scale)
	}
	return nil
}

// BeginFrame clears the display list and returns a Context recording
// into it.
func (r *Rasterizer) BeginFrame() (*Context, error) {
	switch r.state {
	case stateRecording:
		return nil, ErrFrameInProgress
	case stateUninitialized, stateCleanedUp:
		return nil, ErrNotInitialized
	}
	r.list.Reset()
	r.state = stateRecording
	return newContext(r.list, r.atlas, r.width, r.height, r.scale), nil
}

// EndFrame resolves damage, repaints the dirty tiles from the display
// list and returns the full surface as a Frame. The caller owns the
// frame and must Release it.
//
// If ctx is canceled during repaint, the error is returned and the tiles
// not yet painted stay dirty for the next frame.
func (r *Rasterizer) EndFrame(ctx context.Context) (*Frame, error) {
	switch r.state {
	case stateUninitialized, stateCleanedUp:
		return nil, ErrNotInitialized
	case stateReady:
		return nil, ErrNoFrame
	}
	r.state = stateReady

	items := r.list.items
	reported := r.damage.Pending()
	if r.opts.autoDamage && r.prev != nil {
		r.diffDamage(items)
		reported = true
	}
	damage := r.damage.Take(r.width, r.height)
	if damage.Empty() && !reported {
		damage = r.tiles.Bounds()
	}
	r.tiles.MarkDamaged(damage)

	r.images.prepare(items)
	bg := r.opts.background.Packed()
	if c, ok := r.list.clearColor(); ok {
		bg = c
	}

	dirty := r.tiles.DirtyTiles()
	err := parallel.Repaint(ctx, dirty, r.opts.workers, func(_ context.Context, t *parallel.Tile) error {
		paintTile(t, items, bg)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("canvas: repaint: %w", err)
	}

	sigs := r.prev[:0]
	if sigs == nil {
		sigs = make([]itemSig, 0, len(items))
	}
	r.prev = sigs
	for i := range items {
		r.prev = append(r.prev, itemSig{key: items[i].Key, pix: items[i].pix})
	}

	f := r.pool.Get(r.width, r.height)
	r.tiles.CopyToBuffer(f.Pix)
	f.Damage = damage
	f.DirtyTiles = len(dirty)

	r.frames++
	r.lastDamage = damage
	r.lastDirty = len(dirty)
	Logger().Debug("canvas: frame rendered",
		"frame", r.frames, "items", len(items), "damage", damage,
		"dirty_tiles", len(dirty), "tiles", r.tiles.TileCount(),
		"image_evictions", r.images.stats().Evictions,
		"glyph_evictions", r.atlas.Stats().Evictions)
	return f, nil
}

// diffDamage adds the old and new pixels of every display position whose
// item changed since the previous frame.
func (r *Rasterizer) diffDamage(items []DisplayItem) {
	n := max(len(items), len(r.prev))
	for i := range n {
		switch {
		case i >= len(items):
			r.damage.Add(r.prev[i].pix)
		case i >= len(r.prev):
			r.damage.Add(items[i].pix)
		case items[i].Key != r.prev[i].key || items[i].pix != r.prev[i].pix:
			r.damage.Add(r.prev[i].pix)
			r.damage.Add(items[i].pix)
		}
	}
}

// AddDamage marks a device-pixel rectangle for repaint in the next frame.
// Rectangles with no area are ignored.
func (r *Rasterizer) AddDamage(rect image.Rectangle) {
	r.damage.Add(rect)
}

// AddAllDamage marks the whole surface for repaint in the next frame.
func (r *Rasterizer) AddAllDamage() {
	r.damage.AddAll()
}

// DisplayList returns the list of the current or most recent frame.
// It stays valid for hit testing until the next BeginFrame.
func (r *Rasterizer) DisplayList() *DisplayList {
	return r.list
}

// Cleanup releases the tile store and display list. It is safe to call
// more than once.
func (r *Rasterizer) Cleanup() {
	if r.state == stateCleanedUp {
		return
	}
	if r.tiles != nil {
		r.tiles.Close()
		r.tiles = nil
	}
	r.list.Reset()
	r.prev = nil
	r.images.clear()
	r.damage.Reset()
	r.state = stateCleanedUp
	Logger().Info("canvas: rasterizer cleaned up", "frames", r.frames)
}

// Size returns the surface size in device pixels.
func (r *Rasterizer) Size() (width, height int) {
	return r.width, r.height
}

// ScaleFactor returns the surface scale factor.
func (r *Rasterizer) ScaleFactor() float64 {
	return r.scale
}

// Backend returns the selected backend.
func (r *Rasterizer) Backend() Backend {
	return r.backend
}

// Atlas returns the glyph atlas.
func (r *Rasterizer) Atlas() *text.Atlas {
	return r.atlas
}

// RasterStats reports rasterizer counters.
type RasterStats struct {
	// Frames is the number of frames rendered.
	Frames uint64

	// LastDamage is the damage of the most recent frame.
	LastDamage image.Rectangle

	// LastDirtyTiles is the number of tiles the most recent frame repainted.
	LastDirtyTiles int

	// Tiles is the number of tiles in the store.
	Tiles int

	// Images and Glyphs are the cache statistics.
	Images, Glyphs text.Stats
}

// Stats returns the rasterizer counters.
func (r *Rasterizer) Stats() RasterStats {
	s := RasterStats{
		Frames:         r.frames,
		LastDamage:     r.lastDamage,
		LastDirtyTiles: r.lastDirty,
		Images:         r.images.stats(),
		Glyphs:         r.atlas.Stats(),
	}
	if r.tiles != nil {
		s.Tiles = r.tiles.TileCount()
	}
	return s
}
