// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"
	"slices"

	"github.com/chewxy/math32"
)

// CoverageFunc receives one pixel and its coverage in (0, 1].
type CoverageFunc func(x, y int, coverage float32)

// Filler performs odd-even scanline filling of edge lists.
// A Filler keeps scratch buffers between calls and must not be shared
// between goroutines.
type Filler struct {
	crossings []float32
	row       []float32
}

// NewFiller creates a filler with empty scratch buffers.
func NewFiller() *Filler {
	return &Filler{
		crossings: make([]float32, 0, 16),
	}
}

// Fill walks every pixel row of clip that the edges touch, samples the
// crossings at the row's vertical center and fills between consecutive
// pairs of sorted crossings. Coverage at span ends is the fractional
// horizontal overlap of the pixel with the span.
func (f *Filler) Fill(edges []Edge, clip image.Rectangle, fn CoverageFunc) {
	minX, minY, maxX, maxY, ok := Bounds(edges)
	if !ok || clip.Empty() {
		return
	}

	y0 := max(clip.Min.Y, int(math32.Floor(minY)))
	y1 := min(clip.Max.Y, int(math32.Ceil(maxY)))
	x0 := max(clip.Min.X, int(math32.Floor(minX)))
	x1 := min(clip.Max.X, int(math32.Ceil(maxX)))
	if y0 >= y1 || x0 >= x1 {
		return
	}

	width := x1 - x0
	if cap(f.row) < width {
		f.row = make([]float32, width)
	}
	row := f.row[:width]

	for py := y0; py < y1; py++ {
		sy := float32(py) + 0.5
		f.crossings = f.crossings[:0]
		for i := range edges {
			e := &edges[i]
			if e.ActiveAt(sy) {
				f.crossings = append(f.crossings, e.XAtY(sy))
			}
		}
		if len(f.crossings) < 2 {
			continue
		}
		slices.Sort(f.crossings)

		clear(row)
		touched := false
		for i := 0; i+1 < len(f.crossings); i += 2 {
			if accumulateSpan(row, x0, f.crossings[i], f.crossings[i+1]) {
				touched = true
			}
		}
		if !touched {
			continue
		}
		for i, c := range row {
			if c <= 0 {
				continue
			}
			fn(x0+i, py, math32.Min(c, 1))
		}
	}
}

// accumulateSpan adds the horizontal overlap of [sx0, sx1) with each
// pixel of row, where row[0] is pixel column x0.
func accumulateSpan(row []float32, x0 int, sx0, sx1 float32) bool {
	left := float32(x0)
	right := float32(x0 + len(row))
	sx0 = math32.Max(sx0, left)
	sx1 = math32.Min(sx1, right)
	if sx1 <= sx0 {
		return false
	}

	first := int(math32.Floor(sx0))
	last := int(math32.Ceil(sx1)) - 1
	for px := first; px <= last; px++ {
		lo := math32.Max(float32(px), sx0)
		hi := math32.Min(float32(px+1), sx1)
		if hi > lo {
			row[px-x0] += hi - lo
		}
	}
	return true
}

// Contains reports whether (x, y) lies inside the edge set under the
// odd-even rule, by casting a ray to the right and counting crossings.
// It uses the same activity and interpolation rules as Fill, so a point
// at a pixel center hit here lies inside a span Fill paints.
func Contains(edges []Edge, x, y float32) bool {
	minX, minY, maxX, maxY, ok := Bounds(edges)
	if !ok || math32.IsNaN(x) || math32.IsNaN(y) {
		return false
	}
	if x < minX || x > maxX || y < minY || y > maxY {
		return false
	}

	inside := false
	for i := range edges {
		e := &edges[i]
		if e.ActiveAt(y) && e.XAtY(y) > x {
			inside = !inside
		}
	}
	return inside
}
