package text

import (
	"fmt"
	"image"
	"slices"
	"sync"

	"github.com/chewxy/math32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/canvas/internal/raster"
)

// DefaultFamily is the family name NewDefaultRasterizer registers the Go
// Regular font under.
const DefaultFamily = "Go"

// SFNTRasterizer rasterizes TrueType and OpenType glyph outlines with
// golang.org/x/image/font/sfnt and the package's scanline filler.
//
// Outlines are flattened with the same fixed curve subdivision as paths.
// SFNTRasterizer is safe for concurrent use; calls are serialized.
type SFNTRasterizer struct {
	mu       sync.Mutex
	fonts    map[string]*sfnt.Font
	fallback string

	// buf and filler are reused between calls under mu
	buf    sfnt.Buffer
	filler *raster.Filler
}

// NewSFNTRasterizer creates a rasterizer with no fonts registered.
func NewSFNTRasterizer() *SFNTRasterizer {
	return &SFNTRasterizer{
		fonts:  make(map[string]*sfnt.Font),
		filler: raster.NewFiller(),
	}
}

// NewDefaultRasterizer creates a rasterizer with Go Regular registered
// as DefaultFamily. It panics if the embedded font fails to parse.
func NewDefaultRasterizer() *SFNTRasterizer {
	r := NewSFNTRasterizer()
	if err := r.Register(DefaultFamily, goregular.TTF); err != nil {
		panic(err)
	}
	return r
}

// Register parses font data and makes it available as family.
// The first registered family becomes the fallback for Font.Family "".
func (r *SFNTRasterizer) Register(family string, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyFontData
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("text: failed to parse font %q: %w", family, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.fonts[family] = f
	if r.fallback == "" && len(r.fonts) == 1 {
		r.fallback = family
	}
	slogger().Debug("text: font registered", "family", family, "glyphs", f.NumGlyphs())
	return nil
}

// Families returns the registered family names in sorted order.
func (r *SFNTRasterizer) Families() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.fonts))
	for name := range r.fonts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// lookup returns the font for family. Caller must hold r.mu.
func (r *SFNTRasterizer) lookup(family string) (*sfnt.Font, error) {
	if family == "" {
		family = r.fallback
	}
	f, ok := r.fonts[family]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	return f, nil
}

// RasterizeGlyph implements Rasterizer.
// A non-positive or non-finite size yields an empty bitmap.
func (r *SFNTRasterizer) RasterizeGlyph(f Font, ch rune) (*GlyphBitmap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sf, err := r.lookup(f.Family)
	if err != nil {
		return nil, err
	}
	if !validSize(f.Size) {
		return &GlyphBitmap{}, nil
	}

	idx, err := sf.GlyphIndex(&r.buf, ch)
	if err != nil || idx == 0 {
		return nil, fmt.Errorf("%w: %q in %q", ErrGlyphNotFound, ch, f.Family)
	}

	ppem := toFixed(f.Size)
	advance, err := sf.GlyphAdvance(&r.buf, idx, ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("text: glyph advance %q: %w", ch, err)
	}

	// LoadGlyph's segments alias r.buf; convert before the next buffer use.
	segs, err := sf.LoadGlyph(&r.buf, idx, ppem, nil)
	if err != nil {
		return nil, fmt.Errorf("text: load glyph %q: %w", ch, err)
	}
	edges := raster.Tessellate(outlineSegments(segs))

	g := &GlyphBitmap{Advance: fromFixed(advance)}
	minX, minY, maxX, maxY, ok := raster.Bounds(edges)
	if !ok {
		return g, nil
	}

	bounds := image.Rect(
		int(math32.Floor(minX)), int(math32.Floor(minY)),
		int(math32.Ceil(maxX)), int(math32.Ceil(maxY)),
	)
	g.Left, g.Top = bounds.Min.X, bounds.Min.Y
	g.Width, g.Height = bounds.Dx(), bounds.Dy()
	g.Mask = make([]uint8, g.Width*g.Height)

	r.filler.Fill(edges, bounds, func(x, y int, c float32) {
		g.Mask[(y-bounds.Min.Y)*g.Width+x-bounds.Min.X] = uint8(math32.Min(c, 1)*255 + 0.5)
	})
	return g, nil
}

// MeasureText implements Rasterizer. Runes without a glyph advance by
// the font's missing-glyph width.
func (r *SFNTRasterizer) MeasureText(s string, f Font) (Metrics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sf, err := r.lookup(f.Family)
	if err != nil {
		return Metrics{}, err
	}
	if !validSize(f.Size) {
		return Metrics{}, nil
	}

	ppem := toFixed(f.Size)
	fm, err := sf.Metrics(&r.buf, ppem, font.HintingNone)
	if err != nil {
		return Metrics{}, fmt.Errorf("text: font metrics: %w", err)
	}

	var width fixed.Int26_6
	for _, ch := range s {
		idx, err := sf.GlyphIndex(&r.buf, ch)
		if err != nil {
			idx = 0
		}
		adv, err := sf.GlyphAdvance(&r.buf, idx, ppem, font.HintingNone)
		if err != nil {
			continue
		}
		width += adv
	}

	return Metrics{
		Width:      fromFixed(width),
		Ascent:     fromFixed(fm.Ascent),
		Descent:    fromFixed(fm.Descent),
		LineHeight: fromFixed(fm.Height),
	}, nil
}

// outlineSegments converts sfnt segments (pixel units, y down) to raster
// segments.
func outlineSegments(segs sfnt.Segments) []raster.Segment {
	out := make([]raster.Segment, 0, len(segs)+4)
	for _, s := range segs {
		var rs raster.Segment
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if len(out) > 0 {
				out = append(out, raster.Segment{Verb: raster.Close})
			}
			rs.Verb = raster.MoveTo
		case sfnt.SegmentOpLineTo:
			rs.Verb = raster.LineTo
		case sfnt.SegmentOpQuadTo:
			rs.Verb = raster.QuadTo
		case sfnt.SegmentOpCubeTo:
			rs.Verb = raster.CubicTo
		default:
			continue
		}
		for i := range rs.Pts {
			rs.Pts[i] = raster.Pt(fromFixed(s.Args[i].X), fromFixed(s.Args[i].Y))
		}
		out = append(out, rs)
	}
	if len(out) > 0 {
		out = append(out, raster.Segment{Verb: raster.Close})
	}
	return out
}

func validSize(size float32) bool {
	return size > 0 && !math32.IsInf(size, 1)
}

func toFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(math32.Round(v * 64))
}

func fromFixed(x fixed.Int26_6) float32 {
	return float32(x) / 64
}
