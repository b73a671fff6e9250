// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"math"
	"testing"
)

func TestRectCoverage(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		name   string
		r      Rect
		px, py int
		want   float32
	}{
		{"full pixel", Rect{0, 0, 4, 4}, 1, 1, 1},
		{"outside", Rect{0, 0, 4, 4}, 5, 1, 0},
		{"half on x", Rect{0.5, 0, 4, 4}, 0, 1, 0.5},
		{"quarter corner", Rect{0.5, 0.5, 4, 4}, 0, 0, 0.25},
		{"sub-pixel rect", Rect{1.25, 1.25, 1.75, 1.75}, 1, 1, 0.25},
		{"zero width", Rect{2, 2, 2, 6}, 2, 3, 0},
		{"inverted", Rect{4, 4, 0, 0}, 1, 1, 0},
		{"nan", Rect{nan, 0, 4, 4}, 1, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RectCoverage(tt.r, tt.px, tt.py); got != tt.want {
				t.Errorf("RectCoverage(%v, %d, %d) = %v, want %v", tt.r, tt.px, tt.py, got, tt.want)
			}
		})
	}
}

func TestCircleCoverage(t *testing.T) {
	tests := []struct {
		name   string
		radius float32
		px, py int
		want   float32
	}{
		{"center", 5, 10, 10, 1},
		{"well inside", 5, 12, 10, 1},
		{"far outside", 5, 20, 10, 0},
		// pixel center (15.5, 10.5) is exactly radius away: half coverage
		{"on the rim", 5, 15, 10, 0.5},
		{"zero radius", 0, 10, 10, 0},
		{"negative radius", -3, 10, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CircleCoverage(10.5, 10.5, tt.radius, tt.px, tt.py)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("CircleCoverage(r=%v, %d, %d) = %v, want %v", tt.radius, tt.px, tt.py, got, tt.want)
			}
		})
	}
}

func TestRectStrokeCovers(t *testing.T) {
	r := Rect{2, 2, 12, 12}
	tests := []struct {
		name   string
		px, py int
		want   bool
	}{
		{"left band", 2, 6, true},
		{"top band", 6, 1, true},
		{"interior", 6, 6, false},
		{"outside", 20, 6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RectStrokeCovers(r, 2, tt.px, tt.py); got != tt.want {
				t.Errorf("RectStrokeCovers(%d, %d) = %v, want %v", tt.px, tt.py, got, tt.want)
			}
		})
	}
	if RectStrokeCovers(r, 0, 2, 6) {
		t.Error("zero-width stroke should cover nothing")
	}
}

func TestCircleStrokeCovers(t *testing.T) {
	if !CircleStrokeCovers(10.5, 10.5, 5, 2, 15, 10) {
		t.Error("pixel on the rim should be inside the annulus")
	}
	if CircleStrokeCovers(10.5, 10.5, 5, 2, 10, 10) {
		t.Error("center pixel should not be inside the annulus")
	}
}

func TestPolylineStroke(t *testing.T) {
	lines := [][]Point{{Pt(0, 5), Pt(20, 5)}}
	if !PolylineStrokeCovers(lines, 2, 10, 4) {
		t.Error("pixel next to the line should be covered")
	}
	if PolylineStrokeCovers(lines, 2, 10, 8) {
		t.Error("pixel three rows away should not be covered")
	}

	if !PolylineStrokeContains(lines, 2, 10, 5.9) {
		t.Error("point inside the stroke band should be contained")
	}
	if PolylineStrokeContains(lines, 2, 10, 6.1) {
		t.Error("point just past the stroke band should not be contained")
	}

	// Near the origin a truncated point lands in the wrong pixel.
	axis := [][]Point{{Pt(0, 0), Pt(20, 0)}}
	if !PolylineStrokeContains(axis, 1, 5, -0.4) {
		t.Error("point above the axis within half width should be contained")
	}
	if PolylineStrokeContains(axis, 1, 5, 0.9) {
		t.Error("point below the axis past half width should not be contained")
	}
	if PolylineStrokeContains(axis, 0, 5, 0) {
		t.Error("zero width stroke should contain nothing")
	}

	b, ok := PolylineBounds(lines, 1)
	if !ok {
		t.Fatal("PolylineBounds reported no points")
	}
	if want := (Rect{-1, 4, 21, 6}); b != want {
		t.Errorf("PolylineBounds() = %v, want %v", b, want)
	}
}
