package canvas

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"
)

// CacheKey is a content hash of a display item: its command fields, the
// transform, opacity, surface scale, blend mode and clip in effect.
// Items with identical visual output share a key.
type CacheKey uint64

// keyHasher feeds fixed-width values into a 64-bit FNV-1a hash.
type keyHasher struct {
	h   hash.Hash64
	buf [8]byte
}

func newKeyHasher() *keyHasher {
	return &keyHasher{h: fnv.New64a()}
}

func (k *keyHasher) u64(v uint64) {
	binary.LittleEndian.PutUint64(k.buf[:], v)
	k.h.Write(k.buf[:])
}

func (k *keyHasher) u8(v uint8) {
	k.buf[0] = v
	k.h.Write(k.buf[:1])
}

// f64 hashes v with both zeros folded together, as they render alike.
func (k *keyHasher) f64(v float64) {
	if v == 0 {
		v = 0
	}
	k.u64(math.Float64bits(v))
}

func (k *keyHasher) str(s string) {
	k.u64(uint64(len(s)))
	k.h.Write([]byte(s))
}

func (k *keyHasher) point(p Point) {
	k.f64(p.X)
	k.f64(p.Y)
}

func (k *keyHasher) rect(r Rect) {
	k.f64(r.X)
	k.f64(r.Y)
	k.f64(r.W)
	k.f64(r.H)
}

func (k *keyHasher) color(c Color) {
	k.u64(uint64(c.Packed()))
}

func (k *keyHasher) matrix(m Matrix) {
	k.f64(m.A)
	k.f64(m.B)
	k.f64(m.C)
	k.f64(m.D)
	k.f64(m.E)
	k.f64(m.F)
}

func (k *keyHasher) paint(p Paint) {
	k.color(p.Color)
	k.u8(uint8(p.Style))
	if p.Style == StrokeStyle {
		k.f64(p.StrokeWidth)
	}
}

func (k *keyHasher) path(p *Path) {
	if p == nil {
		k.u64(0)
		return
	}
	k.u64(uint64(len(p.elements)))
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			k.u8(0)
			k.point(e.Point)
		case LineTo:
			k.u8(1)
			k.point(e.Point)
		case QuadTo:
			k.u8(2)
			k.point(e.Control)
			k.point(e.Point)
		case CubicTo:
			k.u8(3)
			k.point(e.Control1)
			k.point(e.Control2)
			k.point(e.Point)
		case Close:
			k.u8(4)
		}
	}
}

func (k *keyHasher) stops(stops []ColorStop) {
	k.u64(uint64(len(stops)))
	for _, s := range stops {
		k.f64(s.Offset)
		k.color(s.Color)
	}
}

// command hashes the content fields of cmd.
func (k *keyHasher) command(cmd Command) {
	k.u8(uint8(cmd.Type()))
	switch c := cmd.(type) {
	case ClearCommand:
		k.color(c.Color)
	case RectCommand:
		k.rect(c.Rect)
		k.paint(c.Paint)
	case CircleCommand:
		k.point(c.Center)
		k.f64(c.Radius)
		k.paint(c.Paint)
	case PathCommand:
		k.path(c.Path)
		k.paint(c.Paint)
	case ImageCommand:
		if c.Image != nil {
			k.u64(c.Image.ID())
		}
		k.u64(uint64(int64(c.Src.Min.X)))
		k.u64(uint64(int64(c.Src.Min.Y)))
		k.u64(uint64(int64(c.Src.Max.X)))
		k.u64(uint64(int64(c.Src.Max.Y)))
		k.rect(c.Dst)
	case LinearGradientCommand:
		k.rect(c.Rect)
		k.point(c.Start)
		k.point(c.End)
		k.stops(c.Stops)
	case RadialGradientCommand:
		k.rect(c.Rect)
		k.point(c.Center)
		k.f64(c.Radius)
		k.stops(c.Stops)
	case TextCommand:
		k.str(c.Text)
		k.point(c.Origin)
		k.str(c.Font.Family)
		k.u64(uint64(math.Float32bits(c.Font.Size)))
		k.color(c.Color)
	}
}

func (k *keyHasher) sum() uint64 {
	return k.h.Sum64()
}

// itemKey computes the cache key of an item drawn under st.
func itemKey(cmd Command, st *drawState, scale float64) CacheKey {
	k := newKeyHasher()
	k.command(cmd)
	k.matrix(st.transform)
	k.f64(st.opacity)
	k.f64(scale)
	k.u8(uint8(st.blend))
	k.u64(st.clip.key)
	return CacheKey(k.sum())
}
