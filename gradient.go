package canvas

import (
	"math"
	"slices"
	"sort"
)

// ColorStop represents a color at a specific position in a gradient.
type ColorStop struct {
	Offset float64 // Position in gradient, 0.0 to 1.0
	Color  Color   // Color at this position
}

// Stop is a convenience function to create a ColorStop.
func Stop(offset float64, c Color) ColorStop {
	return ColorStop{Offset: offset, Color: c}
}

// sortStops returns a sorted copy of stops with offsets clamped to
// [0, 1]. Stops with a NaN offset are dropped. Equal offsets keep their
// call order, giving a hard transition.
func sortStops(stops []ColorStop) []ColorStop {
	sorted := make([]ColorStop, 0, len(stops))
	for _, s := range stops {
		if math.IsNaN(s.Offset) {
			continue
		}
		s.Offset = clamp01(s.Offset)
		sorted = append(sorted, s)
	}
	slices.SortStableFunc(sorted, func(a, b ColorStop) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	})
	return sorted
}

// clamp01 clamps a value to [0, 1] range. NaN maps to 0.
func clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// colorAtOffset returns the color at parameter t over sorted stops.
// Outside [0, 1] the end colors are padded.
func colorAtOffset(stops []ColorStop, t float64) Color {
	if len(stops) == 0 {
		return Transparent
	}
	if len(stops) == 1 {
		return stops[0].Color
	}

	t = clamp01(t)
	idx := sort.Search(len(stops), func(i int) bool {
		return stops[i].Offset > t
	})
	if idx == 0 {
		return stops[0].Color
	}
	if idx >= len(stops) {
		return stops[len(stops)-1].Color
	}

	s1, s2 := stops[idx-1], stops[idx]
	if s2.Offset == s1.Offset {
		return s1.Color
	}
	return s1.Color.Lerp(s2.Color, (t-s1.Offset)/(s2.Offset-s1.Offset))
}

// linearParam projects p onto the start to end axis; 0 at start, 1 at end.
func linearParam(start, end, p Point) float64 {
	axis := end.Sub(start)
	l2 := axis.LengthSquared()
	if l2 == 0 || !finite(l2) {
		return 0
	}
	return p.Sub(start).Dot(axis) / l2
}

// radialParam is the distance from center over radius.
func radialParam(center Point, radius float64, p Point) float64 {
	if !(radius > 0) || !finite(radius) {
		return 1
	}
	return p.Distance(center) / radius
}
