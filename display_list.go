package canvas

import (
	"image"
	"slices"
	"sync/atomic"

	"github.com/gogpu/canvas/internal/raster"
	"github.com/gogpu/canvas/text"
)

// NodeID identifies one display item. IDs are process-wide and
// monotonically increasing, so no two items ever share one.
type NodeID uint64

// nodeIDs is the process-wide NodeID counter.
var nodeIDs atomic.Uint64

func nextNodeID() NodeID {
	return NodeID(nodeIDs.Add(1))
}

// DisplayItem is one recorded draw with the state it was recorded under.
type DisplayItem struct {
	// ID is unique per item.
	ID NodeID

	// Key is the content hash of the item.
	Key CacheKey

	// Bounds is the device-space bounding box of the transformed,
	// stroke-expanded shape. Clear reports an infinite rectangle and
	// Push/Pop markers an empty one.
	Bounds Rect

	// Opaque is true only for a solid fill at full alpha under full
	// global opacity.
	Opaque bool

	// InteractiveID is non-empty for items that take part in hit testing.
	InteractiveID string

	// Blend is the blend mode in effect.
	Blend BlendMode

	// Command is the recorded operation.
	Command Command

	// Transform maps the command's user space to device pixels.
	Transform Matrix

	// Opacity is the global opacity in effect, in [0, 1].
	Opacity float64

	// Clip is the device-space clip rectangle in effect; infinite when
	// the item is unclipped.
	Clip Rect

	pix  image.Rectangle // device pixels the item may touch, clip applied
	clip *clipState
	geom geometry
}

// Clipped reports whether a clip rectangle or path applies to the item.
func (it *DisplayItem) Clipped() bool {
	return !it.clip.unclipped()
}

// PixelBounds returns the integer device pixels the item may paint,
// clip included.
func (it *DisplayItem) PixelBounds() image.Rectangle {
	return it.pix
}

// Contains reports whether device point p hits the item's shape.
// Rectangles test with inclusive edges, circles by squared distance and
// paths by odd-even ray casting over the same edges used for filling.
// Points outside the clip never hit.
func (it *DisplayItem) Contains(p Point) bool {
	if !p.Finite() || !it.clip.allowsPoint(p) {
		return false
	}
	g := &it.geom
	switch g.kind {
	case shapeClear:
		return true
	case shapeRect, shapeRectStroke:
		r := Rect{X: float64(g.rect.X0), Y: float64(g.rect.Y0),
			W: float64(g.rect.X1 - g.rect.X0), H: float64(g.rect.Y1 - g.rect.Y0)}
		if g.kind == shapeRectStroke {
			r = r.Inset(-float64(g.width) / 2)
		}
		return HitTestRect(r, p)
	case shapeCircle, shapeCircleStroke:
		radius := float64(g.radius)
		if g.kind == shapeCircleStroke {
			radius += float64(g.width) / 2
		}
		return HitTestCircle(Pt(float64(g.cx), float64(g.cy)), radius, p)
	case shapeFill, shapeStroke:
		if len(g.edges) > 0 && raster.Contains(g.edges, float32(p.X), float32(p.Y)) {
			return true
		}
		return g.kind == shapeStroke && raster.PolylineStrokeContains(g.lines, g.width, float32(p.X), float32(p.Y))
	case shapeImage, shapeLinear, shapeRadial, shapeText:
		return it.Bounds.Intersect(it.Clip).Contains(p)
	}
	return false
}

// DisplayList is the ordered recording of one frame.
//
// It is cleared at the start of every frame and never persisted.
// A DisplayList is not safe for concurrent mutation; once a frame ends it
// is read-only and may be hit tested from one goroutine at a time.
type DisplayList struct {
	items []DisplayItem
}

// NewDisplayList creates an empty display list.
func NewDisplayList() *DisplayList {
	return &DisplayList{items: make([]DisplayItem, 0, 64)}
}

// Len returns the number of items.
func (l *DisplayList) Len() int {
	return len(l.items)
}

// Item returns the i-th item in recording order.
func (l *DisplayList) Item(i int) *DisplayItem {
	return &l.items[i]
}

// Items returns the items in recording order. The slice must not be
// modified.
func (l *DisplayList) Items() []DisplayItem {
	return l.items
}

// Reset drops every item, keeping capacity.
func (l *DisplayList) Reset() {
	clear(l.items)
	l.items = l.items[:0]
}

// Clone returns a copy of the list that stays valid after the original is
// reset for the next frame. Recorded geometry is shared, as it is never
// mutated once recorded.
func (l *DisplayList) Clone() *DisplayList {
	return &DisplayList{items: slices.Clone(l.items)}
}

// Background returns the color of the first Clear, if any.
func (l *DisplayList) Background() (Color, bool) {
	for i := range l.items {
		if c, ok := l.items[i].Command.(ClearCommand); ok {
			return c.Color, true
		}
	}
	return Color{}, false
}

// clearColor returns the packed color, opacity applied, of the first Clear.
func (l *DisplayList) clearColor() (uint32, bool) {
	for i := range l.items {
		if l.items[i].geom.kind == shapeClear {
			return l.items[i].geom.color, true
		}
	}
	return 0, false
}

// HitTest returns the interactive id of the topmost interactive item
// containing device point p.
func (l *DisplayList) HitTest(p Point) (string, bool) {
	for i := len(l.items) - 1; i >= 0; i-- {
		it := &l.items[i]
		if it.InteractiveID != "" && it.Contains(p) {
			return it.InteractiveID, true
		}
	}
	return "", false
}

// HitTestAll returns the interactive ids of every item containing p,
// topmost first, without duplicates.
func (l *DisplayList) HitTestAll(p Point) []string {
	var ids []string
	seen := make(map[string]struct{})
	for i := len(l.items) - 1; i >= 0; i-- {
		it := &l.items[i]
		if it.InteractiveID == "" {
			continue
		}
		if _, dup := seen[it.InteractiveID]; dup {
			continue
		}
		if it.Contains(p) {
			seen[it.InteractiveID] = struct{}{}
			ids = append(ids, it.InteractiveID)
		}
	}
	return ids
}

func (l *DisplayList) append(it DisplayItem) *DisplayItem {
	l.items = append(l.items, it)
	return &l.items[len(l.items)-1]
}

// shapeKind selects how an item's geometry paints and hit tests.
type shapeKind uint8

const (
	shapeNone shapeKind = iota
	shapeClear
	shapeRect
	shapeRectStroke
	shapeCircle
	shapeCircleStroke
	shapeFill
	shapeStroke
	shapeImage
	shapeLinear
	shapeRadial
	shapeText
)

// geometry is the device-space form of an item, prepared at record time.
type geometry struct {
	kind  shapeKind
	color uint32 // packed solid color with opacity applied

	rect   raster.Rect
	cx, cy float32
	radius float32
	width  float32 // device stroke width

	edges []raster.Edge
	lines [][]raster.Point

	inverse Matrix // device to user space
	alpha   uint8  // global opacity for images and gradients
	stops   []ColorStop
	image   *imageDraw
	glyphs  []placedGlyph
}

// imageDraw holds what an image item samples from.
type imageDraw struct {
	src     *Image
	region  image.Rectangle
	dst     Rect // user space
	aligned bool
	target  image.Rectangle // device pixels of the pre-scaled copy
	scaled  *scaledImage    // set by the rasterizer before painting
}

// placedGlyph is a glyph bitmap at its device pixel position.
type placedGlyph struct {
	x, y int // top-left of the mask
	bm   *text.GlyphBitmap
}

// clipState is the device-space clip of a drawing state. It is shared
// between items and never mutated after creation.
type clipState struct {
	rect  Rect
	paths [][]raster.Edge
	key   uint64
}

var noClip = &clipState{rect: InfiniteRect()}

func (c *clipState) unclipped() bool {
	return c.rect.Infinite() && len(c.paths) == 0
}

// allows reports whether pixel (x, y) passes the clip; the pixel center
// is tested.
func (c *clipState) allows(x, y int) bool {
	return c.allowsPoint(Pt(float64(x)+0.5, float64(y)+0.5))
}

func (c *clipState) allowsPoint(p Point) bool {
	if !c.rect.Infinite() {
		if p.X < c.rect.X || p.X >= c.rect.MaxX() || p.Y < c.rect.Y || p.Y >= c.rect.MaxY() {
			return false
		}
	}
	for _, edges := range c.paths {
		if !raster.Contains(edges, float32(p.X), float32(p.Y)) {
			return false
		}
	}
	return true
}
