package text

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

// countingRasterizer returns square bitmaps of side px and counts calls.
type countingRasterizer struct {
	px    int
	calls atomic.Int32
	err   error
}

func (c *countingRasterizer) RasterizeGlyph(f Font, r rune) (*GlyphBitmap, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &GlyphBitmap{
		Width: c.px, Height: c.px,
		Advance: float32(c.px),
		Mask:    make([]uint8, c.px*c.px),
	}, nil
}

func (c *countingRasterizer) MeasureText(s string, f Font) (Metrics, error) {
	return Metrics{Width: float32(len(s) * c.px)}, nil
}

func TestAtlasHitAfterMiss(t *testing.T) {
	cr := &countingRasterizer{px: 4}
	a := NewAtlas(cr, 1<<20)
	f := Font{Size: 10}

	first, err := a.Glyph(f, 'a')
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Glyph(f, 'a')
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("hit returned a different bitmap than the miss stored")
	}
	if got := cr.calls.Load(); got != 1 {
		t.Errorf("rasterizer calls = %d, want 1", got)
	}
	if _, err := a.Glyph(f.WithSize(11), 'a'); err != nil {
		t.Fatal(err)
	}
	if got := cr.calls.Load(); got != 2 {
		t.Errorf("rasterizer calls after size change = %d, want 2", got)
	}
}

func TestAtlasEvictsLeastRecentlyUsed(t *testing.T) {
	cr := &countingRasterizer{px: 4}
	glyph := int64(4*4 + glyphOverhead)
	a := NewAtlas(cr, 3*glyph)
	f := Font{Size: 10}

	for _, r := range "abc" {
		a.Glyph(f, r)
	}
	a.Glyph(f, 'a') // b is now least recently used
	a.Glyph(f, 'd')

	if a.Len() != 3 {
		t.Errorf("Len() = %d, want 3", a.Len())
	}
	if a.Size() > 3*glyph {
		t.Errorf("Size() = %d, exceeds budget %d", a.Size(), 3*glyph)
	}
	before := cr.calls.Load()
	a.Glyph(f, 'a')
	if cr.calls.Load() != before {
		t.Error("'a' was evicted despite recent use")
	}
	a.Glyph(f, 'b')
	if cr.calls.Load() != before+1 {
		t.Error("'b' should have been evicted and rasterized again")
	}
}

func TestAtlasOversizedGlyph(t *testing.T) {
	cr := &countingRasterizer{px: 100}
	a := NewAtlas(cr, 1000)

	g, err := a.Glyph(Font{Size: 90}, 'W')
	if err != nil {
		t.Fatalf("Glyph() error = %v", err)
	}
	if g == nil || g.Width != 100 {
		t.Fatal("oversized glyph was not returned")
	}
	if a.Len() != 0 {
		t.Errorf("Len() = %d, oversized glyph should not be cached", a.Len())
	}
}

func TestAtlasPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	a := NewAtlas(&countingRasterizer{px: 2, err: boom}, 0)
	if _, err := a.Glyph(Font{Size: 10}, 'x'); !errors.Is(err, boom) {
		t.Errorf("Glyph() error = %v, want %v", err, boom)
	}
	if a.Len() != 0 {
		t.Error("failed glyph was cached")
	}
}

func TestAtlasConcurrentMissRasterizesOnce(t *testing.T) {
	cr := &countingRasterizer{px: 8}
	a := NewAtlas(cr, 1<<20)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := a.Glyph(Font{Size: 12}, 'q'); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if got := cr.calls.Load(); got != 1 {
		t.Errorf("rasterizer calls = %d, want 1", got)
	}
}

func TestAtlasWithSFNT(t *testing.T) {
	a := NewAtlas(NewDefaultRasterizer(), 0)
	f := Font{Size: 14}
	for _, r := range "hello" {
		if _, err := a.Glyph(f, r); err != nil {
			t.Fatalf("Glyph(%q) error = %v", r, err)
		}
	}
	// "hello" has four distinct runes
	if a.Len() != 4 {
		t.Errorf("Len() = %d, want 4", a.Len())
	}
	if s := a.Stats(); s.Evictions != 0 {
		t.Errorf("Evictions = %d, want 0 under the default budget", s.Evictions)
	}

	m, err := a.MeasureText("hello", f)
	if err != nil || m.Width <= 0 {
		t.Errorf("MeasureText() = %+v, %v", m, err)
	}
}
