package text

import (
	"errors"
	"math"
	"testing"
)

func TestFontID(t *testing.T) {
	a := Font{Family: "Go", Size: 12}
	if a.ID() != a.WithSize(40).ID() {
		t.Error("font identity changed with size")
	}
	if a.ID() == (Font{Family: "Mono", Size: 12}).ID() {
		t.Error("different families share an identity")
	}
}

func TestNewGlyphKey(t *testing.T) {
	f := Font{Family: "Go", Size: 12.5}
	k := NewGlyphKey(f, 'x')
	if k.SizeBits != math.Float32bits(12.5) {
		t.Errorf("SizeBits = %#x, want bits of 12.5", k.SizeBits)
	}
	if k == NewGlyphKey(f.WithSize(12.50001), 'x') {
		t.Error("keys for different sizes compare equal")
	}
	if k != NewGlyphKey(f, 'x') {
		t.Error("keys for identical input differ")
	}
}

func TestSFNTRasterizeGlyph(t *testing.T) {
	r := NewDefaultRasterizer()
	g, err := r.RasterizeGlyph(Font{Family: DefaultFamily, Size: 32}, 'A')
	if err != nil {
		t.Fatalf("RasterizeGlyph('A') error = %v", err)
	}
	if g.Empty() {
		t.Fatal("'A' rasterized to an empty bitmap")
	}
	if g.Advance <= 0 {
		t.Errorf("Advance = %v, want > 0", g.Advance)
	}
	if g.Top >= 0 {
		t.Errorf("Top = %d, want negative (above baseline)", g.Top)
	}
	if len(g.Mask) != g.Width*g.Height {
		t.Errorf("mask length = %d, want %d", len(g.Mask), g.Width*g.Height)
	}

	full := 0
	for _, c := range g.Mask {
		if c == 255 {
			full++
		}
	}
	if full == 0 {
		t.Error("glyph has no fully covered pixel")
	}
}

func TestSFNTFallbackFamily(t *testing.T) {
	r := NewDefaultRasterizer()
	named, err := r.RasterizeGlyph(Font{Family: DefaultFamily, Size: 16}, 'g')
	if err != nil {
		t.Fatal(err)
	}
	fallback, err := r.RasterizeGlyph(Font{Size: 16}, 'g')
	if err != nil {
		t.Fatal(err)
	}
	if named.Width != fallback.Width || named.Height != fallback.Height {
		t.Errorf("fallback glyph %dx%d, want %dx%d", fallback.Width, fallback.Height, named.Width, named.Height)
	}
}

func TestSFNTSpaceIsEmpty(t *testing.T) {
	r := NewDefaultRasterizer()
	g, err := r.RasterizeGlyph(Font{Size: 16}, ' ')
	if err != nil {
		t.Fatalf("RasterizeGlyph(' ') error = %v", err)
	}
	if !g.Empty() {
		t.Errorf("space rasterized to %dx%d", g.Width, g.Height)
	}
	if g.Advance <= 0 {
		t.Errorf("space Advance = %v, want > 0", g.Advance)
	}
}

func TestSFNTErrors(t *testing.T) {
	r := NewDefaultRasterizer()

	tests := []struct {
		name string
		font Font
		ch   rune
		want error
	}{
		{"unknown family", Font{Family: "Nope", Size: 12}, 'a', ErrUnknownFamily},
		{"missing glyph", Font{Size: 12}, '\U0001F600', ErrGlyphNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.RasterizeGlyph(tt.font, tt.ch)
			if !errors.Is(err, tt.want) {
				t.Errorf("RasterizeGlyph() error = %v, want %v", err, tt.want)
			}
		})
	}

	if err := r.Register("empty", nil); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("Register(nil) error = %v, want %v", err, ErrEmptyFontData)
	}
	if err := r.Register("junk", []byte("not a font")); err == nil {
		t.Error("Register accepted junk data")
	}
}

func TestSFNTDegenerateSize(t *testing.T) {
	r := NewDefaultRasterizer()
	for _, size := range []float32{0, -4, float32(math.NaN()), float32(math.Inf(1))} {
		g, err := r.RasterizeGlyph(Font{Size: size}, 'A')
		if err != nil {
			t.Errorf("size %v: error = %v", size, err)
			continue
		}
		if !g.Empty() {
			t.Errorf("size %v: bitmap %dx%d, want empty", size, g.Width, g.Height)
		}
	}
}

func TestSFNTMeasureText(t *testing.T) {
	r := NewDefaultRasterizer()
	f := Font{Size: 20}

	g, err := r.RasterizeGlyph(f, 'W')
	if err != nil {
		t.Fatal(err)
	}
	m, err := r.MeasureText("WWW", f)
	if err != nil {
		t.Fatalf("MeasureText() error = %v", err)
	}
	if diff := m.Width - 3*g.Advance; diff > 0.01 || diff < -0.01 {
		t.Errorf("Width = %v, want 3 * %v", m.Width, g.Advance)
	}
	if m.Ascent <= 0 || m.Descent <= 0 {
		t.Errorf("Ascent, Descent = %v, %v, want both positive", m.Ascent, m.Descent)
	}
	if m.LineHeight < m.Height() {
		t.Errorf("LineHeight = %v, want >= %v", m.LineHeight, m.Height())
	}

	empty, err := r.MeasureText("", f)
	if err != nil || empty.Width != 0 {
		t.Errorf("MeasureText(\"\") = %+v, %v", empty, err)
	}
}

func TestFamilies(t *testing.T) {
	r := NewDefaultRasterizer()
	if err := r.Register("Alias", nil); err == nil {
		t.Fatal("Register(nil) succeeded")
	}
	got := r.Families()
	if len(got) != 1 || got[0] != DefaultFamily {
		t.Errorf("Families() = %v, want [%s]", got, DefaultFamily)
	}
}
