package text

import (
	"hash/fnv"
	"math"
)

// Font identifies a font family at a pixel size.
type Font struct {
	// Family is the registered family name. Empty selects the default family.
	Family string

	// Size is the pixel size (pixels per em).
	Size float32
}

// ID returns the font identity hash: FNV-1a of the family name.
// Sizes share one identity; they are keyed separately by GlyphKey.
func (f Font) ID() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(f.Family)) // fnv.Write never returns an error
	return h.Sum64()
}

// WithSize returns a copy of f at the given pixel size.
func (f Font) WithSize(size float32) Font {
	f.Size = size
	return f
}

// GlyphKey identifies one rasterized glyph in the atlas.
type GlyphKey struct {
	// FontID is Font.ID of the font.
	FontID uint64

	// SizeBits is the IEEE 754 bit pattern of the pixel size.
	// Using the bit pattern ensures exact matching without floating-point issues.
	SizeBits uint32

	// Rune is the character code.
	Rune rune
}

// NewGlyphKey creates the atlas key for rune r of font f.
func NewGlyphKey(f Font, r rune) GlyphKey {
	return GlyphKey{
		FontID:   f.ID(),
		SizeBits: math.Float32bits(f.Size),
		Rune:     r,
	}
}

// GlyphBitmap is a rasterized glyph: an 8-bit coverage mask positioned
// relative to the pen on the baseline.
//
// Bitmaps are immutable once handed out.
type GlyphBitmap struct {
	// Width and Height are the mask dimensions in pixels.
	Width, Height int

	// Left is the horizontal offset from the pen to the mask's left edge.
	Left int

	// Top is the vertical offset from the baseline to the mask's top edge;
	// negative above the baseline.
	Top int

	// Advance is the horizontal pen advance in pixels.
	Advance float32

	// Mask holds Width*Height coverage values, row-major.
	Mask []uint8
}

// glyphOverhead approximates the fixed cost of a cached bitmap.
const glyphOverhead = 64

// Size returns the number of bytes the bitmap accounts for in a cache.
func (g *GlyphBitmap) Size() int64 {
	return int64(len(g.Mask)) + glyphOverhead
}

// Empty reports whether the glyph has no visible pixels (for example a space).
func (g *GlyphBitmap) Empty() bool {
	return g.Width == 0 || g.Height == 0
}

// CoverageAt returns the mask value at (x, y) in mask space, or 0 outside.
func (g *GlyphBitmap) CoverageAt(x, y int) uint8 {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0
	}
	return g.Mask[y*g.Width+x]
}

// Metrics describes a run of text laid out by linear advance.
type Metrics struct {
	// Width is the sum of glyph advances.
	Width float32

	// Ascent is the distance from the baseline to the top of the line (positive).
	Ascent float32

	// Descent is the distance from the baseline to the bottom of the line (positive).
	Descent float32

	// LineHeight is the recommended distance between baselines.
	LineHeight float32
}

// Height returns Ascent + Descent.
func (m Metrics) Height() float32 {
	return m.Ascent + m.Descent
}

// Rasterizer is the font collaborator consumed by the atlas.
//
// Implementations must be safe for concurrent use.
type Rasterizer interface {
	// RasterizeGlyph renders rune r of font f.
	RasterizeGlyph(f Font, r rune) (*GlyphBitmap, error)

	// MeasureText returns the linear-advance metrics of s in font f.
	MeasureText(s string, f Font) (Metrics, error)
}
