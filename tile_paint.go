package canvas

import (
	"image"
	"math"
	"sync"

	"github.com/gogpu/canvas/internal/blend"
	"github.com/gogpu/canvas/internal/parallel"
	"github.com/gogpu/canvas/internal/raster"
)

// fillers reuses scanline scratch buffers across tile goroutines.
var fillers = sync.Pool{
	New: func() any { return raster.NewFiller() },
}

// paintTile repaints t: it fills the tile with bg and paints every item
// overlapping the tile in list order, starting at the last item that
// covers the whole tile opaquely.
func paintTile(t *parallel.Tile, items []DisplayItem, bg uint32) {
	tb := t.Bounds()
	start := 0
	for i := len(items) - 1; i >= 0; i-- {
		if coversTile(&items[i], tb) {
			start = i
			break
		}
	}

	f := fillers.Get().(*raster.Filler)
	defer fillers.Put(f)

	t.Fill(bg)
	for i := start; i < len(items); i++ {
		it := &items[i]
		area := it.pix.Intersect(tb)
		if area.Empty() {
			continue
		}
		paintItem(t, it, area, f)
	}
}

// coversTile reports whether painting it alone fully determines every
// pixel of the tile bounds tb.
func coversTile(it *DisplayItem, tb image.Rectangle) bool {
	if !it.clip.unclipped() {
		return false
	}
	g := &it.geom
	switch g.kind {
	case shapeClear:
		return true
	case shapeRect:
		if it.Blend != BlendNormal || blend.Alpha(g.color) != 255 {
			return false
		}
		r := g.rect
		return r.X0 <= float32(tb.Min.X) && r.Y0 <= float32(tb.Min.Y) &&
			r.X1 >= float32(tb.Max.X) && r.Y1 >= float32(tb.Max.Y)
	}
	return false
}

// paintItem composites it into the pixels of area, which lies within t.
func paintItem(t *parallel.Tile, it *DisplayItem, area image.Rectangle, f *raster.Filler) {
	g := &it.geom
	mode := it.Blend
	clip := it.clip
	clipped := !clip.unclipped()

	put := func(x, y int, src uint32, cov uint8) {
		if cov == 0 || (clipped && !clip.allows(x, y)) {
			return
		}
		i := t.Offset(x, y)
		t.Pix[i] = blend.Composite(src, t.Pix[i], mode, cov)
	}

	switch g.kind {
	case shapeClear:
		for y := area.Min.Y; y < area.Max.Y; y++ {
			for x := area.Min.X; x < area.Max.X; x++ {
				if !clipped || clip.allows(x, y) {
					t.Pix[t.Offset(x, y)] = g.color
				}
			}
		}

	case shapeRect:
		eachPixel(area, func(x, y int) {
			put(x, y, g.color, cov8(raster.RectCoverage(g.rect, x, y)))
		})

	case shapeRectStroke:
		eachPixel(area, func(x, y int) {
			if raster.RectStrokeCovers(g.rect, g.width, x, y) {
				put(x, y, g.color, 255)
			}
		})

	case shapeCircle:
		eachPixel(area, func(x, y int) {
			put(x, y, g.color, cov8(raster.CircleCoverage(g.cx, g.cy, g.radius, x, y)))
		})

	case shapeCircleStroke:
		eachPixel(area, func(x, y int) {
			if raster.CircleStrokeCovers(g.cx, g.cy, g.radius, g.width, x, y) {
				put(x, y, g.color, 255)
			}
		})

	case shapeFill:
		f.Fill(g.edges, area, func(x, y int, c float32) {
			put(x, y, g.color, cov8(c))
		})

	case shapeStroke:
		eachPixel(area, func(x, y int) {
			if raster.PolylineStrokeCovers(g.lines, g.width, x, y) {
				put(x, y, g.color, 255)
			}
		})

	case shapeImage:
		d := g.image
		eachPixel(area, func(x, y int) {
			if src, ok := d.sample(g.inverse, x, y); ok {
				put(x, y, blend.ScaleAlpha(src, g.alpha), 255)
			}
		})

	case shapeLinear:
		cmd := it.Command.(LinearGradientCommand)
		eachPixel(area, func(x, y int) {
			u := g.inverse.TransformPoint(Pt(float64(x)+0.5, float64(y)+0.5))
			if !insideHalfOpen(cmd.Rect, u) {
				return
			}
			c := colorAtOffset(g.stops, linearParam(cmd.Start, cmd.End, u))
			put(x, y, blend.ScaleAlpha(c.Packed(), g.alpha), 255)
		})

	case shapeRadial:
		cmd := it.Command.(RadialGradientCommand)
		eachPixel(area, func(x, y int) {
			u := g.inverse.TransformPoint(Pt(float64(x)+0.5, float64(y)+0.5))
			if !insideHalfOpen(cmd.Rect, u) {
				return
			}
			c := colorAtOffset(g.stops, radialParam(cmd.Center, cmd.Radius, u))
			put(x, y, blend.ScaleAlpha(c.Packed(), g.alpha), 255)
		})

	case shapeText:
		for _, pg := range g.glyphs {
			gr := image.Rect(pg.x, pg.y, pg.x+pg.bm.Width, pg.y+pg.bm.Height).Intersect(area)
			eachPixel(gr, func(x, y int) {
				put(x, y, g.color, pg.bm.CoverageAt(x-pg.x, y-pg.y))
			})
		}
	}
}

func eachPixel(r image.Rectangle, fn func(x, y int)) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			fn(x, y)
		}
	}
}

// cov8 converts a coverage in [0, 1] to 0..255.
func cov8(c float32) uint8 {
	switch {
	case !(c > 0):
		return 0
	case c >= 1:
		return 255
	}
	return uint8(c*255 + 0.5)
}

func insideHalfOpen(r Rect, p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// sample returns the source pixel shown at device pixel (x, y).
func (d *imageDraw) sample(inverse Matrix, x, y int) (uint32, bool) {
	if d.aligned && d.scaled != nil {
		return d.scaled.at(x-d.target.Min.X, y-d.target.Min.Y)
	}
	u := inverse.TransformPoint(Pt(float64(x)+0.5, float64(y)+0.5))
	if !insideHalfOpen(d.dst, u) {
		return 0, false
	}
	sx := d.region.Min.X + int(math.Floor((u.X-d.dst.X)/d.dst.W*float64(d.region.Dx())))
	sy := d.region.Min.Y + int(math.Floor((u.Y-d.dst.Y)/d.dst.H*float64(d.region.Dy())))
	sx = min(max(sx, d.region.Min.X), d.region.Max.X-1)
	sy = min(max(sy, d.region.Min.Y), d.region.Max.Y-1)
	return d.src.packedAt(sx, sy), true
}
