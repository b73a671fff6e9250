// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"math"

	"github.com/chewxy/math32"
)

// MinEdgeHeight is the smallest vertical extent an edge may have.
// Shorter edges never own a scanline crossing and are dropped.
const MinEdgeHeight = 0.001

// Point is a device-space point in float32 precision.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// finite reports whether both coordinates are real numbers.
func (p Point) finite() bool {
	return !math32.IsNaN(p.X) && !math32.IsNaN(p.Y) &&
		!math32.IsInf(p.X, 0) && !math32.IsInf(p.Y, 0)
}

// Edge represents a line segment for scanline conversion.
// Edges are normalized so that YMin <= YMax.
type Edge struct {
	// YMin is the minimum Y coordinate (top of edge).
	YMin float32

	// YMax is the maximum Y coordinate (bottom of edge).
	YMax float32

	// XAtYMin is the X coordinate at YMin.
	XAtYMin float32

	// DXDY is the inverse slope: change in X per unit Y.
	DXDY float32
}

// NewEdge creates an edge from two points.
// It returns false for edges shorter than MinEdgeHeight or with
// non-finite coordinates.
func NewEdge(p0, p1 Point) (Edge, bool) {
	if !p0.finite() || !p1.finite() {
		return Edge{}, false
	}
	if p0.Y > p1.Y {
		p0, p1 = p1, p0
	}

	dy := p1.Y - p0.Y
	if dy < MinEdgeHeight {
		return Edge{}, false
	}

	return Edge{
		YMin:    p0.Y,
		YMax:    p1.Y,
		XAtYMin: p0.X,
		DXDY:    (p1.X - p0.X) / dy,
	}, true
}

// XAtY returns the X coordinate of the edge at y.
// y is clamped into [YMin, YMax] so the result never extrapolates
// past the edge's endpoints.
func (e *Edge) XAtY(y float32) float32 {
	if y < e.YMin {
		y = e.YMin
	} else if y > e.YMax {
		y = e.YMax
	}
	return e.XAtYMin + (y-e.YMin)*e.DXDY
}

// ActiveAt reports whether the edge crosses the horizontal line at y.
// The range is half-open so a vertex shared by two edges is counted once.
func (e *Edge) ActiveAt(y float32) bool {
	return y >= e.YMin && y < e.YMax
}

// Bounds returns the bounding box of an edge set.
// An empty set reports ok=false.
func Bounds(edges []Edge) (minX, minY, maxX, maxY float32, ok bool) {
	if len(edges) == 0 {
		return 0, 0, 0, 0, false
	}

	minX = float32(math.MaxFloat32)
	minY = float32(math.MaxFloat32)
	maxX = -float32(math.MaxFloat32)
	maxY = -float32(math.MaxFloat32)

	for i := range edges {
		e := &edges[i]
		minY = math32.Min(minY, e.YMin)
		maxY = math32.Max(maxY, e.YMax)

		x0 := e.XAtYMin
		x1 := e.XAtY(e.YMax)
		minX = math32.Min(minX, math32.Min(x0, x1))
		maxX = math32.Max(maxX, math32.Max(x0, x1))
	}
	return minX, minY, maxX, maxY, true
}
