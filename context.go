package canvas

import (
	"image"
	"math"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/canvas/internal/blend"
	"github.com/gogpu/canvas/internal/raster"
	"github.com/gogpu/canvas/text"
)

// DefaultFontSize is the font size of a fresh Context.
const DefaultFontSize = 16

// drawState is the state saved and restored by Save and Restore.
type drawState struct {
	transform Matrix
	opacity   float64
	clip      *clipState
	blend     BlendMode
	font      text.Font
}

// Context records drawing operations into a frame's display list.
//
// A Context is obtained from Rasterizer.BeginFrame and is valid until the
// matching EndFrame. Coordinates are in user space: device pixels divided
// by the surface scale factor, then mapped by the current transform.
//
// A Context must be used from a single goroutine.
type Context struct {
	list    *DisplayList
	atlas   *text.Atlas
	surface image.Rectangle
	scale   float64

	st          drawState
	stack       []drawState
	interactive string
}

func newContext(list *DisplayList, atlas *text.Atlas, width, height int, scale float64) *Context {
	return &Context{
		list:    list,
		atlas:   atlas,
		surface: image.Rect(0, 0, width, height),
		scale:   scale,
		st: drawState{
			transform: Scale(scale, scale),
			opacity:   1,
			clip:      noClip,
			blend:     BlendNormal,
			font:      text.Font{Family: text.DefaultFamily, Size: DefaultFontSize},
		},
	}
}

// Width returns the surface width in user units.
func (c *Context) Width() float64 { return float64(c.surface.Dx()) / c.scale }

// Height returns the surface height in user units.
func (c *Context) Height() float64 { return float64(c.surface.Dy()) / c.scale }

// ScaleFactor returns the surface scale factor.
func (c *Context) ScaleFactor() float64 { return c.scale }

// DisplayList returns the list being recorded.
func (c *Context) DisplayList() *DisplayList { return c.list }

// CurrentTransform returns the user-to-device transform, including the
// surface scale factor.
func (c *Context) CurrentTransform() Matrix { return c.st.transform }

// Alpha returns the global opacity.
func (c *Context) Alpha() float64 { return c.st.opacity }

// BlendMode returns the blend mode of subsequent draws.
func (c *Context) BlendMode() BlendMode { return c.st.blend }

// Font returns the font used by DrawText.
func (c *Context) Font() text.Font { return c.st.font }

// ---------------------------------------------------------------------------
// State
// ---------------------------------------------------------------------------

// Save pushes the transform, opacity, clip, blend mode and font, and
// records a Push marker.
func (c *Context) Save() {
	c.stack = append(c.stack, c.st)
	c.record(PushCommand{}, Rect{}, false, geometry{})
}

// Restore pops the state pushed by the matching Save and records a Pop
// marker. Without a matching Save it does nothing.
func (c *Context) Restore() {
	n := len(c.stack)
	if n == 0 {
		return
	}
	c.st = c.stack[n-1]
	c.stack = c.stack[:n-1]
	c.record(PopCommand{}, Rect{}, false, geometry{})
}

// Transform multiplies the current transform by m; m applies first.
func (c *Context) Transform(m Matrix) {
	c.st.transform = c.st.transform.Multiply(m)
}

// Translate moves the user-space origin.
func (c *Context) Translate(x, y float64) {
	c.Transform(Translate(x, y))
}

// Scale scales user space.
func (c *Context) Scale(sx, sy float64) {
	c.Transform(Scale(sx, sy))
}

// Rotate rotates user space by angle radians.
func (c *Context) Rotate(angle float64) {
	c.Transform(Rotate(angle))
}

// SetAlpha sets the global opacity, clamped to [0, 1].
func (c *Context) SetAlpha(a float64) {
	c.st.opacity = clamp01(a)
}

// SetBlendMode sets the blend mode of subsequent draws. Unknown modes
// draw as BlendNormal.
func (c *Context) SetBlendMode(m BlendMode) {
	if !m.Valid() {
		m = BlendNormal
	}
	c.st.blend = m
}

// SetFont sets the font used by DrawText.
func (c *Context) SetFont(f text.Font) {
	c.st.font = f
}

// ClipRect intersects the clip with rectangle r.
func (c *Context) ClipRect(r Rect) {
	m := c.st.transform
	if !m.IsAxisAligned() {
		c.clipPath(NewPath().Rectangle(r.X, r.Y, r.W, r.H), 'r')
		return
	}

	k := newKeyHasher()
	k.u64(c.st.clip.key)
	k.u8('r')
	k.rect(r)
	k.matrix(m)

	dev := Rect{}
	if !r.Empty() {
		dev = m.TransformRect(r)
	}
	c.st.clip = &clipState{
		rect:  c.st.clip.rect.Intersect(dev),
		paths: c.st.clip.paths,
		key:   k.sum(),
	}
}

// ClipPath intersects the clip with the odd-even interior of path.
func (c *Context) ClipPath(path *Path) {
	if path == nil {
		path = NewPath()
	}
	c.clipPath(path, 'p')
}

func (c *Context) clipPath(path *Path, tag uint8) {
	m := c.st.transform
	k := newKeyHasher()
	k.u64(c.st.clip.key)
	k.u8(tag)
	k.path(path)
	k.matrix(m)

	edges := raster.Tessellate(path.segments(m))
	x0, y0, x1, y1, ok := raster.Bounds(edges)
	dev := Rect{}
	if ok {
		dev = Rect{X: float64(x0), Y: float64(y0), W: float64(x1 - x0), H: float64(y1 - y0)}
	}
	prev := c.st.clip
	paths := make([][]raster.Edge, 0, len(prev.paths)+1)
	paths = append(paths, prev.paths...)
	paths = append(paths, edges)
	c.st.clip = &clipState{
		rect:  prev.rect.Intersect(dev),
		paths: paths,
		key:   k.sum(),
	}
}

// ---------------------------------------------------------------------------
// Drawing
// ---------------------------------------------------------------------------

// Clear fills the whole clip region with col, replacing what is there.
// The first Clear of a frame is also the background of every repainted
// tile.
func (c *Context) Clear(col Color) {
	g := geometry{kind: shapeClear, color: c.withOpacity(col)}
	opaque := col.Opaque() && c.st.opacity >= 1
	c.record(ClearCommand{Color: col}, InfiniteRect(), opaque, g)
}

// DrawRect fills or strokes rectangle r.
func (c *Context) DrawRect(r Rect, p Paint) {
	cmd := RectCommand{Rect: r, Paint: p}
	if r.Empty() || r.Infinite() || !finiteRect(r) {
		c.record(cmd, Rect{}, false, geometry{})
		return
	}
	m := c.st.transform
	if !m.IsAxisAligned() {
		g, bounds := c.pathGeometry(NewPath().Rectangle(r.X, r.Y, r.W, r.H), p)
		c.record(cmd, bounds, c.opaque(p), g)
		return
	}

	dev := m.TransformRect(r)
	g := geometry{
		kind:  shapeRect,
		color: c.withOpacity(p.Color),
		rect:  toRasterRect(dev),
	}
	bounds := dev
	if p.IsStroke() {
		g.kind = shapeRectStroke
		g.width = float32(2 * p.halfStroke() * m.ScaleFactor())
		bounds = dev.Inset(-float64(g.width) / 2)
	}
	c.record(cmd, bounds, c.opaque(p), g)
}

// DrawCircle fills or strokes a circle.
func (c *Context) DrawCircle(center Point, radius float64, p Paint) {
	cmd := CircleCommand{Center: center, Radius: radius, Paint: p}
	if !(radius > 0) || !finite(radius) || !center.Finite() {
		c.record(cmd, Rect{}, false, geometry{})
		return
	}
	m := c.st.transform
	if !isSimilarity(m) {
		g, bounds := c.pathGeometry(NewPath().Circle(center.X, center.Y, radius), p)
		c.record(cmd, bounds, c.opaque(p), g)
		return
	}

	s := m.ScaleFactor()
	dc := m.TransformPoint(center)
	g := geometry{
		kind:   shapeCircle,
		color:  c.withOpacity(p.Color),
		cx:     float32(dc.X),
		cy:     float32(dc.Y),
		radius: float32(radius * s),
	}
	reach := radius * s
	if p.IsStroke() {
		g.kind = shapeCircleStroke
		g.width = float32(2 * p.halfStroke() * s)
		reach += float64(g.width) / 2
	}
	bounds := Rect{X: dc.X - reach, Y: dc.Y - reach, W: 2 * reach, H: 2 * reach}
	c.record(cmd, bounds, c.opaque(p), g)
}

// DrawPath fills (odd-even rule) or strokes path. The path is copied.
func (c *Context) DrawPath(path *Path, p Paint) {
	if path == nil {
		path = NewPath()
	}
	path = path.Clone()
	g, bounds := c.pathGeometry(path, p)
	c.record(PathCommand{Path: path, Paint: p}, bounds, c.opaque(p), g)
}

// pathGeometry tessellates path under the current transform.
func (c *Context) pathGeometry(path *Path, p Paint) (geometry, Rect) {
	segs := path.segments(c.st.transform)
	g := geometry{color: c.withOpacity(p.Color)}
	if p.IsStroke() {
		g.kind = shapeStroke
		g.width = float32(2 * p.halfStroke() * c.st.transform.ScaleFactor())
		g.lines = raster.Flatten(segs)
		r, ok := raster.PolylineBounds(g.lines, g.width/2)
		if !ok || !(g.width > 0) {
			return geometry{}, Rect{}
		}
		return g, fromRasterRect(r)
	}

	g.kind = shapeFill
	g.edges = raster.Tessellate(segs)
	x0, y0, x1, y1, ok := raster.Bounds(g.edges)
	if !ok {
		return geometry{}, Rect{}
	}
	return g, Rect{X: float64(x0), Y: float64(y0), W: float64(x1 - x0), H: float64(y1 - y0)}
}

// DrawImage draws im at its natural size with its top-left at (x, y).
func (c *Context) DrawImage(im *Image, x, y float64) {
	if im == nil {
		c.record(ImageCommand{}, Rect{}, false, geometry{})
		return
	}
	c.DrawImageRegion(im, im.Bounds(), R(x, y, float64(im.Width()), float64(im.Height())))
}

// DrawImageRegion draws the src region of im scaled into dst.
//
// Under scale-and-translate transforms the region is resampled
// bilinearly once per distinct item and cached; other transforms sample
// the nearest source pixel.
func (c *Context) DrawImageRegion(im *Image, src image.Rectangle, dst Rect) {
	cmd := ImageCommand{Image: im, Src: src, Dst: dst}
	if im == nil {
		c.record(cmd, Rect{}, false, geometry{})
		return
	}
	src = src.Intersect(im.Bounds())
	cmd.Src = src
	m := c.st.transform
	inv, ok := m.Invert()
	if src.Empty() || dst.Empty() || !finiteRect(dst) || !ok {
		c.record(cmd, Rect{}, false, geometry{})
		return
	}

	dev := m.TransformRect(dst)
	d := &imageDraw{src: im, region: src, dst: dst, aligned: m.IsAxisAligned()}
	if d.aligned {
		d.target = image.Rect(
			clampInt(math.Round(dev.X)), clampInt(math.Round(dev.Y)),
			clampInt(math.Round(dev.MaxX())), clampInt(math.Round(dev.MaxY())),
		)
		if d.target.Empty() {
			c.record(cmd, Rect{}, false, geometry{})
			return
		}
		dev = RectFromImage(d.target)
	}
	g := geometry{kind: shapeImage, inverse: inv, alpha: alpha8(c.st.opacity), image: d}
	c.record(cmd, dev, false, g)
}

// FillLinearGradient fills r with a gradient running from start to end
// in user space. Colors are padded beyond the end points.
func (c *Context) FillLinearGradient(r Rect, start, end Point, stops []ColorStop) {
	sorted := sortStops(stops)
	cmd := LinearGradientCommand{Rect: r, Start: start, End: end, Stops: sorted}
	g, bounds := c.gradientGeometry(shapeLinear, r, sorted)
	c.record(cmd, bounds, false, g)
}

// FillRadialGradient fills r with a gradient from center (offset 0) to
// radius (offset 1). Colors are padded beyond radius.
func (c *Context) FillRadialGradient(r Rect, center Point, radius float64, stops []ColorStop) {
	sorted := sortStops(stops)
	cmd := RadialGradientCommand{Rect: r, Center: center, Radius: radius, Stops: sorted}
	g, bounds := c.gradientGeometry(shapeRadial, r, sorted)
	c.record(cmd, bounds, false, g)
}

func (c *Context) gradientGeometry(kind shapeKind, r Rect, stops []ColorStop) (geometry, Rect) {
	m := c.st.transform
	inv, ok := m.Invert()
	if r.Empty() || !finiteRect(r) || !ok || len(stops) == 0 {
		return geometry{}, Rect{}
	}
	g := geometry{
		kind:    kind,
		inverse: inv,
		alpha:   alpha8(c.st.opacity),
		stops:   stops,
	}
	return g, m.TransformRect(r)
}

// DrawText draws s with the current font, its baseline starting at (x, y).
func (c *Context) DrawText(s string, x, y float64, col Color) {
	c.DrawTextWithFont(s, x, y, c.st.font, col)
}

// DrawTextWithFont draws s in font f, its baseline starting at (x, y).
//
// The text is NFC-normalized and laid out by linear advance, one glyph
// per rune. A rune the font cannot draw is left blank but still advances
// the pen by its measured width. Glyphs are rasterized at the font size times the transform
// and surface scale, and are not rotated with the transform.
func (c *Context) DrawTextWithFont(s string, x, y float64, f text.Font, col Color) {
	s = norm.NFC.String(s)
	origin := Pt(x, y)
	cmd := TextCommand{Text: s, Origin: origin, Font: f, Color: col}
	m := c.st.transform
	scale := m.ScaleFactor()
	if s == "" || c.atlas == nil || !origin.Finite() || !(scale > 0) {
		c.record(cmd, Rect{}, false, geometry{})
		return
	}

	dir := m.TransformVector(Pt(1, 0))
	if l := math.Sqrt(dir.LengthSquared()); l > 0 {
		dir = dir.Mul(1 / l)
	}
	devFont := f.WithSize(float32(float64(f.Size) * scale))
	pen := m.TransformPoint(origin)

	g := geometry{kind: shapeText, color: c.withOpacity(col)}
	var bounds Rect
	for _, r := range s {
		bm, err := c.atlas.Glyph(devFont, r)
		if err != nil {
			// Advance as MeasureText does, by the font's missing-glyph width.
			Logger().Warn("canvas: glyph skipped", "rune", string(r), "family", f.Family, "err", err)
			if m, merr := c.atlas.MeasureText(string(r), devFont); merr == nil {
				pen = pen.Add(dir.Mul(float64(m.Width)))
			}
			continue
		}
		if !bm.Empty() {
			pg := placedGlyph{
				x:  clampInt(math.Round(pen.X)) + bm.Left,
				y:  clampInt(math.Round(pen.Y)) + bm.Top,
				bm: bm,
			}
			g.glyphs = append(g.glyphs, pg)
			bounds = bounds.Union(R(float64(pg.x), float64(pg.y), float64(bm.Width), float64(bm.Height)))
		}
		pen = pen.Add(dir.Mul(float64(bm.Advance)))
	}
	if len(g.glyphs) == 0 {
		g = geometry{}
	}
	c.record(cmd, bounds, false, g)
}

// MeasureText returns the metrics of s in the current font, in user units.
func (c *Context) MeasureText(s string) (text.Metrics, error) {
	return c.MeasureTextWithFont(s, c.st.font)
}

// MeasureTextWithFont returns the metrics of s in font f, in user units.
func (c *Context) MeasureTextWithFont(s string, f text.Font) (text.Metrics, error) {
	if c.atlas == nil {
		return text.Metrics{}, nil
	}
	return c.atlas.MeasureText(norm.NFC.String(s), f)
}

// ---------------------------------------------------------------------------
// Interaction
// ---------------------------------------------------------------------------

// HitTestPath reports whether device point p lies inside path under the
// current transform, by the same odd-even rule DrawPath fills with.
func (c *Context) HitTestPath(path *Path, p Point) bool {
	return hitTestPath(path, c.st.transform, p)
}

// DrawRectInteractive is DrawRect with the item tagged by id.
func (c *Context) DrawRectInteractive(id string, r Rect, p Paint) {
	c.withInteractive(id, func() { c.DrawRect(r, p) })
}

// DrawCircleInteractive is DrawCircle with the item tagged by id.
func (c *Context) DrawCircleInteractive(id string, center Point, radius float64, p Paint) {
	c.withInteractive(id, func() { c.DrawCircle(center, radius, p) })
}

// DrawPathInteractive is DrawPath with the item tagged by id.
func (c *Context) DrawPathInteractive(id string, path *Path, p Paint) {
	c.withInteractive(id, func() { c.DrawPath(path, p) })
}

// DrawImageInteractive is DrawImage with the item tagged by id.
func (c *Context) DrawImageInteractive(id string, im *Image, x, y float64) {
	c.withInteractive(id, func() { c.DrawImage(im, x, y) })
}

// DrawTextInteractive is DrawText with the item tagged by id.
func (c *Context) DrawTextInteractive(id string, s string, x, y float64, col Color) {
	c.withInteractive(id, func() { c.DrawText(s, x, y, col) })
}

// withInteractive sets the interactive id for the duration of draw only.
func (c *Context) withInteractive(id string, draw func()) {
	prev := c.interactive
	c.interactive = id
	draw()
	c.interactive = prev
}

// ---------------------------------------------------------------------------
// Recording
// ---------------------------------------------------------------------------

// record appends one item under the current state.
func (c *Context) record(cmd Command, bounds Rect, opaque bool, g geometry) {
	clip := c.st.clip
	pix := bounds.Pixels(c.surface)
	if !clip.rect.Infinite() {
		pix = pix.Intersect(clip.rect.Pixels(c.surface))
	}
	clipRect := clip.rect
	c.list.append(DisplayItem{
		ID:            nextNodeID(),
		Key:           itemKey(cmd, &c.st, c.scale),
		Bounds:        bounds,
		Opaque:        opaque,
		InteractiveID: c.interactive,
		Blend:         c.st.blend,
		Command:       cmd,
		Transform:     c.st.transform,
		Opacity:       c.st.opacity,
		Clip:          clipRect,
		pix:           pix,
		clip:          clip,
		geom:          g,
	})
}

func (c *Context) opaque(p Paint) bool {
	return p.solid() && c.st.opacity >= 1
}

func (c *Context) withOpacity(col Color) uint32 {
	return blend.ScaleAlpha(col.Packed(), alpha8(c.st.opacity))
}

// alpha8 converts an opacity in [0, 1] to 0..255.
func alpha8(op float64) uint8 {
	return uint8(clamp01(op)*255 + 0.5)
}

// isSimilarity reports whether m is a uniform scale, rotation and
// translation without mirroring, which maps circles to circles.
func isSimilarity(m Matrix) bool {
	const eps = 1e-9
	return math.Abs(m.A-m.E) < eps && math.Abs(m.B+m.D) < eps && m.A*m.E-m.B*m.D > 0
}

func finiteRect(r Rect) bool {
	return finite(r.X) && finite(r.Y) && finite(r.W) && finite(r.H)
}

func toRasterRect(r Rect) raster.Rect {
	return raster.Rect{
		X0: float32(r.X), Y0: float32(r.Y),
		X1: float32(r.MaxX()), Y1: float32(r.MaxY()),
	}
}

func fromRasterRect(r raster.Rect) Rect {
	return Rect{X: float64(r.X0), Y: float64(r.Y0), W: float64(r.X1 - r.X0), H: float64(r.Y1 - r.Y0)}
}
