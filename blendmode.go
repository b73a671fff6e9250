package canvas

import "github.com/gogpu/canvas/internal/blend"

// BlendMode defines how source pixels are blended with destination pixels.
type BlendMode = blend.Mode

// Blend modes.
const (
	// BlendNormal performs standard alpha blending (source over destination).
	BlendNormal = blend.Normal

	// BlendMultiply multiplies source and destination colors.
	// Result is always darker or equal. Formula: dst * src
	BlendMultiply = blend.Multiply

	// BlendScreen performs inverse multiply for lighter results.
	// Formula: 1 - (1-dst) * (1-src)
	BlendScreen = blend.Screen

	// BlendOverlay combines multiply and screen based on destination brightness.
	BlendOverlay = blend.Overlay

	// BlendDarken keeps the darker of source and destination.
	BlendDarken = blend.Darken

	// BlendLighten keeps the lighter of source and destination.
	BlendLighten = blend.Lighten

	// BlendColorDodge brightens the destination to reflect the source.
	BlendColorDodge = blend.ColorDodge

	// BlendColorBurn darkens the destination to reflect the source.
	BlendColorBurn = blend.ColorBurn

	// BlendHardLight is Overlay with source and destination swapped.
	BlendHardLight = blend.HardLight

	// BlendSoftLight is a softer version of HardLight.
	BlendSoftLight = blend.SoftLight

	// BlendDifference subtracts the darker color from the lighter.
	BlendDifference = blend.Difference

	// BlendExclusion is a lower-contrast Difference.
	BlendExclusion = blend.Exclusion
)

// BlendModes returns every supported blend mode in declaration order.
func BlendModes() []BlendMode {
	return blend.Modes()
}

// ParseBlendMode looks up a blend mode by its lower-case name, such as
// "multiply" or "color-dodge".
func ParseBlendMode(name string) (BlendMode, bool) {
	return blend.ParseMode(name)
}
