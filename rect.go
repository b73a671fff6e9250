package canvas

import (
	"image"
	"math"
)

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X, Y, W, H float64
}

// R is a convenience function to create a Rect.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromPoints returns the smallest rectangle containing a and b.
func RectFromPoints(a, b Point) Rect {
	x0, x1 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y0, y1 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// InfiniteRect returns the unbounded rectangle reported by full-surface
// commands.
func InfiniteRect() Rect {
	return Rect{X: math.Inf(-1), Y: math.Inf(-1), W: math.Inf(1), H: math.Inf(1)}
}

// Infinite reports whether r is unbounded.
func (r Rect) Infinite() bool {
	return math.IsInf(r.W, 1) || math.IsInf(r.H, 1)
}

// Empty reports whether r has no positive, well-defined area.
func (r Rect) Empty() bool {
	return !(r.W > 0) || !(r.H > 0) || math.IsNaN(r.X) || math.IsNaN(r.Y)
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Center returns the center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside r, boundary included.
func (r Rect) Contains(p Point) bool {
	if r.Empty() {
		return false
	}
	if r.Infinite() {
		return p.Finite()
	}
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Inset shrinks the rectangle by d on every side; negative d grows it.
func (r Rect) Inset(d float64) Rect {
	if r.Infinite() {
		return r
	}
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Union returns the smallest rectangle containing both r and s.
// Empty rectangles are ignored.
func (r Rect) Union(s Rect) Rect {
	switch {
	case r.Empty():
		return s
	case s.Empty():
		return r
	case r.Infinite() || s.Infinite():
		return InfiniteRect()
	}
	x0, y0 := math.Min(r.X, s.X), math.Min(r.Y, s.Y)
	x1, y1 := math.Max(r.MaxX(), s.MaxX()), math.Max(r.MaxY(), s.MaxY())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Intersect returns the overlap of r and s, or the zero Rect.
func (r Rect) Intersect(s Rect) Rect {
	switch {
	case r.Empty() || s.Empty():
		return Rect{}
	case r.Infinite():
		return s
	case s.Infinite():
		return r
	}
	x0, y0 := math.Max(r.X, s.X), math.Max(r.Y, s.Y)
	x1, y1 := math.Min(r.MaxX(), s.MaxX()), math.Min(r.MaxY(), s.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Overlaps reports whether r and s share any area.
func (r Rect) Overlaps(s Rect) bool {
	return !r.Intersect(s).Empty()
}

// Pixels returns the integer pixel rectangle touched by r, clipped to
// within. An infinite r yields within.
func (r Rect) Pixels(within image.Rectangle) image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	if r.Infinite() {
		return within
	}
	pr := image.Rect(
		clampInt(math.Floor(r.X)), clampInt(math.Floor(r.Y)),
		clampInt(math.Ceil(r.MaxX())), clampInt(math.Ceil(r.MaxY())),
	)
	return pr.Intersect(within)
}

// RectFromImage converts an integer rectangle to a Rect.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), W: float64(r.Dx()), H: float64(r.Dy())}
}

// clampInt converts v to int, saturating far outside any surface.
func clampInt(v float64) int {
	const limit = 1 << 30
	switch {
	case math.IsNaN(v):
		return 0
	case v < -limit:
		return -limit
	case v > limit:
		return limit
	}
	return int(v)
}
