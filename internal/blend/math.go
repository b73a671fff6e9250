// Package blend provides integer math utilities for alpha blending.
//
// All channel arithmetic happens in the 0-255 domain. Products of two
// channels are divided back by 255 with rounding, so opaque and
// transparent inputs round-trip exactly.
//
// References:
//   - Alvy Ray Smith's technical memos: http://alvyray.com/Memos/
package blend

// div255 divides a non-negative x by 255, rounding to nearest.
//
// Formula: ((x + 128) + ((x + 128) >> 8)) >> 8
//
// Exact for 0 <= x <= 255*255*2, which covers every product in this package.
func div255(x int32) int32 {
	t := x + 128
	return (t + (t >> 8)) >> 8
}

// mul255 multiplies two channel values and divides by 255.
func mul255(a, b int32) int32 {
	return div255(a * b)
}

// clamp255 clamps x to the channel range [0, 255].
func clamp255(x int32) int32 {
	switch {
	case x < 0:
		return 0
	case x > 255:
		return 255
	}
	return x
}

// isqrt255 returns round(sqrt(x/255) * 255) for x in [0, 255].
func isqrt255(x int32) int32 {
	v := x * 255
	r := int32(0)
	for (r+1)*(r+1) <= v {
		r++
	}
	// round to nearest: compare against (r + 0.5)^2
	if v-r*r > r {
		r++
	}
	return r
}
