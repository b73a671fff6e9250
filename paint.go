package canvas

// PaintStyle selects whether a shape is filled or outlined.
type PaintStyle uint8

const (
	// FillStyle paints the interior of a shape.
	FillStyle PaintStyle = iota
	// StrokeStyle paints a band of StrokeWidth centered on the outline.
	StrokeStyle
)

// String returns the style name.
func (s PaintStyle) String() string {
	if s == StrokeStyle {
		return "stroke"
	}
	return "fill"
}

// Paint represents the styling information for drawing a shape.
//
// Strokes have no joins or caps: rectangle strokes are four edge bands
// and circle strokes an annulus. Paths are stroked as bands around their
// flattened segments.
type Paint struct {
	// Color is the solid paint color.
	Color Color

	// Style selects fill or stroke.
	Style PaintStyle

	// StrokeWidth is the width of strokes in user space.
	StrokeWidth float64
}

// Fill returns a fill paint of color c.
func Fill(c Color) Paint {
	return Paint{Color: c, Style: FillStyle}
}

// Stroke returns a stroke paint of color c and width w.
func Stroke(c Color, w float64) Paint {
	return Paint{Color: c, Style: StrokeStyle, StrokeWidth: w}
}

// IsStroke reports whether the paint outlines rather than fills.
func (p Paint) IsStroke() bool {
	return p.Style == StrokeStyle
}

// halfStroke returns the user-space distance strokes extend beyond the
// outline, zero for fills.
func (p Paint) halfStroke() float64 {
	if p.Style != StrokeStyle || !(p.StrokeWidth > 0) {
		return 0
	}
	return p.StrokeWidth / 2
}

// solid reports whether the paint is a fill at full alpha.
func (p Paint) solid() bool {
	return p.Style == FillStyle && p.Color.A == 255
}
