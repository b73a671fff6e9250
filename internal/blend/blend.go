// Package blend composites packed 32-bit pixels.
//
// Pixels are non-premultiplied and packed as 0xAARRGGBB. Normal is plain
// source-over. The separable modes follow the W3C Compositing and
// Blending Level 1 model: the source color is first mixed with the blend
// result B(Cs, Cb) in proportion to the backdrop alpha, then composited
// source-over, so every mode shares the same output alpha.
//
// References:
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Mode selects how a source pixel is combined with a destination pixel.
type Mode uint8

// Blend modes.
const (
	Normal Mode = iota
	Multiply
	Screen
	Overlay
	Darken
	Lighten
	ColorDodge
	ColorBurn
	HardLight
	SoftLight
	Difference
	Exclusion

	modeCount
)

var modeNames = [...]string{
	Normal:     "normal",
	Multiply:   "multiply",
	Screen:     "screen",
	Overlay:    "overlay",
	Darken:     "darken",
	Lighten:    "lighten",
	ColorDodge: "color-dodge",
	ColorBurn:  "color-burn",
	HardLight:  "hard-light",
	SoftLight:  "soft-light",
	Difference: "difference",
	Exclusion:  "exclusion",
}

// Modes returns every supported mode in declaration order.
func Modes() []Mode {
	out := make([]Mode, modeCount)
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m < modeCount
}

func (m Mode) String() string {
	if !m.Valid() {
		return "unknown"
	}
	return modeNames[m]
}

// ParseMode maps a mode name as returned by String back to its Mode.
func ParseMode(name string) (Mode, bool) {
	for i, n := range modeNames {
		if n == name {
			return Mode(i), true
		}
	}
	return Normal, false
}

// Pack builds a pixel from non-premultiplied channels.
func Pack(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Unpack splits a pixel into its channels.
func Unpack(p uint32) (r, g, b, a uint8) {
	return uint8(p >> 16), uint8(p >> 8), uint8(p), uint8(p >> 24)
}

// Alpha returns the alpha channel of p.
func Alpha(p uint32) uint8 {
	return uint8(p >> 24)
}

// ScaleAlpha multiplies the alpha channel of p by k/255.
func ScaleAlpha(p uint32, k uint8) uint32 {
	if k == 255 {
		return p
	}
	a := mul255(int32(p>>24), int32(k))
	return uint32(a)<<24 | p&0x00FFFFFF
}

// Blend composites src over dst under mode. Unknown modes behave as Normal.
func Blend(src, dst uint32, mode Mode) uint32 {
	sa := int32(src >> 24)
	if sa == 0 {
		return dst
	}
	da := int32(dst >> 24)
	if mode == Normal || da == 0 || !mode.Valid() {
		return sourceOver(src, dst)
	}

	fn := channelFuncs[mode]
	sr, sg, sb := channels(src)
	dr, dg, db := channels(dst)
	mixed := Pack(
		uint8(mix(sr, dr, da, fn)),
		uint8(mix(sg, dg, da, fn)),
		uint8(mix(sb, db, da, fn)),
		uint8(sa),
	)
	return sourceOver(mixed, dst)
}

// Composite scales the source alpha by coverage and then blends.
// A zero coverage leaves dst untouched.
func Composite(src, dst uint32, mode Mode, coverage uint8) uint32 {
	if coverage == 0 {
		return dst
	}
	return Blend(ScaleAlpha(src, coverage), dst, mode)
}

func channels(p uint32) (r, g, b int32) {
	return int32(p>>16) & 0xFF, int32(p>>8) & 0xFF, int32(p) & 0xFF
}

// mix returns (1 - da)*s + da*B(s, d).
func mix(s, d, da int32, fn channelFunc) int32 {
	return div255((255-da)*s + da*fn(s, d))
}

// sourceOver composites non-premultiplied src over dst.
//
//	ao = as + ad*(1 - as)
//	co = (cs*as + cd*ad*(1 - as)) / ao
func sourceOver(src, dst uint32) uint32 {
	sa := int32(src >> 24)
	if sa == 255 {
		return src
	}
	if sa == 0 {
		return dst
	}
	da := int32(dst >> 24)
	dw := mul255(da, 255-sa)
	oa := sa + dw
	if oa == 0 {
		return 0
	}

	sr, sg, sb := channels(src)
	dr, dg, db := channels(dst)
	over := func(s, d int32) uint8 {
		return uint8(clamp255((s*sa + d*dw + oa/2) / oa))
	}
	return Pack(over(sr, dr), over(sg, dg), over(sb, db), uint8(oa))
}
