package blend

// channelFunc is the per-channel blend function B(Cs, Cb) for one
// separable mode. Inputs and result are in [0, 255].
type channelFunc func(s, d int32) int32

var channelFuncs = [modeCount]channelFunc{
	Multiply:   multiply,
	Screen:     screen,
	Overlay:    overlay,
	Darken:     darken,
	Lighten:    lighten,
	ColorDodge: colorDodge,
	ColorBurn:  colorBurn,
	HardLight:  hardLight,
	SoftLight:  softLight,
	Difference: difference,
	Exclusion:  exclusion,
}

// multiply: Cs * Cb
func multiply(s, d int32) int32 {
	return mul255(s, d)
}

// screen: Cs + Cb - Cs*Cb
func screen(s, d int32) int32 {
	return s + d - mul255(s, d)
}

// overlay is HardLight with the layers swapped.
func overlay(s, d int32) int32 {
	return hardLight(d, s)
}

func darken(s, d int32) int32 {
	return min(s, d)
}

func lighten(s, d int32) int32 {
	return max(s, d)
}

// colorDodge: Cb / (1 - Cs), saturating at white.
func colorDodge(s, d int32) int32 {
	switch {
	case d == 0:
		return 0
	case s == 255:
		return 255
	}
	return min(255, (d*255+(255-s)/2)/(255-s))
}

// colorBurn: 1 - (1 - Cb) / Cs, saturating at black.
func colorBurn(s, d int32) int32 {
	switch {
	case d == 255:
		return 255
	case s == 0:
		return 0
	}
	return 255 - min(255, ((255-d)*255+s/2)/s)
}

// hardLight multiplies for dark sources and screens for light ones.
func hardLight(s, d int32) int32 {
	if s <= 127 {
		return mul255(2*s, d)
	}
	return screen(2*s-255, d)
}

// softLight is the W3C soft light, with the square root branch for
// backdrops above one quarter.
func softLight(s, d int32) int32 {
	if s <= 127 {
		// Cb - (1 - 2Cs) * Cb * (1 - Cb)
		return clamp255(d - mul255(mul255(255-2*s, d), 255-d))
	}
	var dd int32
	if d <= 63 {
		// ((16Cb - 12)Cb + 4)Cb
		dd = (16*d - 12*255) * d / 255
		dd = (dd + 4*255) * d / 255
	} else {
		dd = isqrt255(d)
	}
	// Cb + (2Cs - 1) * (D(Cb) - Cb)
	delta := dd - d
	if delta >= 0 {
		return clamp255(d + mul255(2*s-255, delta))
	}
	return clamp255(d - mul255(2*s-255, -delta))
}

// difference: |Cs - Cb|
func difference(s, d int32) int32 {
	if s > d {
		return s - d
	}
	return d - s
}

// exclusion: Cs + Cb - 2*Cs*Cb
func exclusion(s, d int32) int32 {
	return clamp255(s + d - 2*mul255(s, d))
}
