package text

import (
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/gogpu/canvas/internal/cache"
)

// DefaultAtlasBytes is the glyph budget used when NewAtlas is given a
// non-positive size.
const DefaultAtlasBytes = 8 << 20

// Stats reports atlas cache statistics.
type Stats = cache.Stats

// Atlas caches rasterized glyphs under a byte budget.
//
// Eviction is the bounded cache's least-recently-used policy. On a miss
// the glyph is rasterized, inserted, and then read back from the cache,
// so hits and misses return the bitmap through the same path. A glyph
// larger than the whole budget is returned uncached. Concurrent misses
// for the same key rasterize once.
//
// Atlas is safe for concurrent use.
type Atlas struct {
	raster Rasterizer
	glyphs *cache.Bounded[GlyphKey, *GlyphBitmap]
	flight singleflight.Group
}

// NewAtlas creates an atlas over the given font collaborator.
func NewAtlas(r Rasterizer, maxBytes int64) *Atlas {
	if maxBytes <= 0 {
		maxBytes = DefaultAtlasBytes
	}
	return &Atlas{
		raster: r,
		glyphs: cache.NewBounded[GlyphKey, *GlyphBitmap](maxBytes),
	}
}

// Rasterizer returns the font collaborator.
func (a *Atlas) Rasterizer() Rasterizer {
	return a.raster
}

// Glyph returns the bitmap for rune r in font f.
func (a *Atlas) Glyph(f Font, r rune) (*GlyphBitmap, error) {
	key := NewGlyphKey(f, r)
	if g, ok := a.glyphs.Get(key); ok {
		return g, nil
	}

	v, err, _ := a.flight.Do(flightKey(key), func() (any, error) {
		if g, ok := a.glyphs.Get(key); ok {
			return g, nil
		}
		fresh, err := a.raster.RasterizeGlyph(f, r)
		if err != nil {
			return nil, err
		}
		if !a.glyphs.Insert(key, fresh, fresh.Size()) {
			slogger().Debug("text: glyph exceeds atlas budget",
				"rune", string(r), "bytes", fresh.Size(), "budget", a.glyphs.MaxSize())
			return fresh, nil
		}
		if g, ok := a.glyphs.Get(key); ok {
			return g, nil
		}
		// evicted by a concurrent insert before the read-back
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*GlyphBitmap), nil
}

// MeasureText returns the linear-advance metrics of s, delegating to the
// font collaborator.
func (a *Atlas) MeasureText(s string, f Font) (Metrics, error) {
	return a.raster.MeasureText(s, f)
}

// Len returns the number of cached glyphs.
func (a *Atlas) Len() int {
	return a.glyphs.Len()
}

// Size returns the bytes held by cached glyphs.
func (a *Atlas) Size() int64 {
	return a.glyphs.Size()
}

// Stats returns the underlying cache statistics.
func (a *Atlas) Stats() Stats {
	return a.glyphs.Stats()
}

// Clear drops every cached glyph.
func (a *Atlas) Clear() {
	a.glyphs.Clear()
}

func flightKey(k GlyphKey) string {
	b := make([]byte, 0, 40)
	b = strconv.AppendUint(b, k.FontID, 16)
	b = append(b, '/')
	b = strconv.AppendUint(b, uint64(k.SizeBits), 16)
	b = append(b, '/')
	b = strconv.AppendInt(b, int64(k.Rune), 16)
	return string(b)
}
