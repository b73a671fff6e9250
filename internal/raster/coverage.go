// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"

	"github.com/chewxy/math32"
)

// Rect is an axis-aligned device-space rectangle with fractional edges.
type Rect struct {
	X0, Y0, X1, Y1 float32
}

// Valid reports whether the rectangle has positive, finite area.
func (r Rect) Valid() bool {
	if !Pt(r.X0, r.Y0).finite() || !Pt(r.X1, r.Y1).finite() {
		return false
	}
	return r.X1 > r.X0 && r.Y1 > r.Y0
}

// Inset shrinks the rectangle by d on every side (negative d grows it).
func (r Rect) Inset(d float32) Rect {
	return Rect{X0: r.X0 + d, Y0: r.Y0 + d, X1: r.X1 - d, Y1: r.Y1 - d}
}

// PixelBounds returns the integer pixel rectangle touched by r.
func (r Rect) PixelBounds() image.Rectangle {
	if !r.Valid() {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math32.Floor(r.X0)), int(math32.Floor(r.Y0)),
		int(math32.Ceil(r.X1)), int(math32.Ceil(r.Y1)),
	)
}

// containsCenter reports whether the center of pixel (px, py) is inside r.
func (r Rect) containsCenter(px, py int) bool {
	cx := float32(px) + 0.5
	cy := float32(py) + 0.5
	return cx >= r.X0 && cx < r.X1 && cy >= r.Y0 && cy < r.Y1
}

// overlap returns the length of [a0, a1) ∩ [b0, b1).
func overlap(a0, a1, b0, b1 float32) float32 {
	lo := math32.Max(a0, b0)
	hi := math32.Min(a1, b1)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// RectCoverage returns the exact area of pixel (px, py) covered by r.
func RectCoverage(r Rect, px, py int) float32 {
	if !r.Valid() {
		return 0
	}
	fx := float32(px)
	fy := float32(py)
	return overlap(fx, fx+1, r.X0, r.X1) * overlap(fy, fy+1, r.Y0, r.Y1)
}

// RectStrokeCovers reports whether pixel (px, py) falls in one of the
// four bands of a rectangle outline of the given width. Strokes are not
// anti-aliased.
func RectStrokeCovers(r Rect, width float32, px, py int) bool {
	if !r.Valid() || !(width > 0) {
		return false
	}
	half := width / 2
	outer := r.Inset(-half)
	if !outer.containsCenter(px, py) {
		return false
	}
	inner := r.Inset(half)
	return !inner.Valid() || !inner.containsCenter(px, py)
}

// CircleCoverage returns the approximate coverage of pixel (px, py) by a
// circle: 1 within radius-0.5 of the center, 0 beyond radius+0.5 and a
// linear ramp in between.
func CircleCoverage(cx, cy, radius float32, px, py int) float32 {
	if !(radius > 0) || !Pt(cx, cy).finite() || math32.IsInf(radius, 0) {
		return 0
	}
	dx := float32(px) + 0.5 - cx
	dy := float32(py) + 0.5 - cy
	d := math32.Sqrt(dx*dx + dy*dy)
	switch {
	case d <= radius-0.5:
		return 1
	case d >= radius+0.5:
		return 0
	default:
		return radius + 0.5 - d
	}
}

// CircleStrokeCovers reports whether pixel (px, py) falls in the annulus
// of a circle outline of the given width.
func CircleStrokeCovers(cx, cy, radius, width float32, px, py int) bool {
	if !(radius > 0) || !(width > 0) || !Pt(cx, cy).finite() {
		return false
	}
	dx := float32(px) + 0.5 - cx
	dy := float32(py) + 0.5 - cy
	d := math32.Sqrt(dx*dx + dy*dy)
	return math32.Abs(d-radius) <= width/2
}

// PolylineStrokeCovers reports whether the center of pixel (px, py) lies
// within width/2 of any segment of lines. This approximates a stroke with
// no joins or caps.
func PolylineStrokeCovers(lines [][]Point, width float32, px, py int) bool {
	return PolylineStrokeContains(lines, width, float32(px)+0.5, float32(py)+0.5)
}

// PolylineStrokeContains reports whether point (x, y) lies within width/2
// of any segment of lines. At a pixel center it agrees with
// PolylineStrokeCovers.
func PolylineStrokeContains(lines [][]Point, width, x, y float32) bool {
	if !(width > 0) {
		return false
	}
	half := width / 2
	limit := half * half
	p := Pt(x, y)
	for _, line := range lines {
		for i := 0; i+1 < len(line); i++ {
			if distSqToSegment(p, line[i], line[i+1]) <= limit {
				return true
			}
		}
	}
	return false
}

// PolylineBounds returns the bounding box of polylines grown by pad.
func PolylineBounds(lines [][]Point, pad float32) (Rect, bool) {
	found := false
	var r Rect
	for _, line := range lines {
		for _, p := range line {
			if !p.finite() {
				continue
			}
			if !found {
				r = Rect{X0: p.X, Y0: p.Y, X1: p.X, Y1: p.Y}
				found = true
				continue
			}
			r.X0 = math32.Min(r.X0, p.X)
			r.Y0 = math32.Min(r.Y0, p.Y)
			r.X1 = math32.Max(r.X1, p.X)
			r.Y1 = math32.Max(r.Y1, p.Y)
		}
	}
	if !found {
		return Rect{}, false
	}
	return r.Inset(-pad), true
}

func distSqToSegment(p, a, b Point) float32 {
	abx, aby := b.X-a.X, b.Y-a.Y
	apx, apy := p.X-a.X, p.Y-a.Y
	lenSq := abx*abx + aby*aby
	t := float32(0)
	if lenSq > 0 {
		t = (apx*abx + apy*aby) / lenSq
		t = math32.Max(0, math32.Min(1, t))
	}
	dx := apx - t*abx
	dy := apy - t*aby
	return dx*dx + dy*dy
}
