// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"math"
	"testing"
)

func TestNewEdge(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		name   string
		p0, p1 Point
		wantOK bool
		want   Edge
	}{
		{"downward", Pt(0, 0), Pt(10, 10), true, Edge{YMin: 0, YMax: 10, XAtYMin: 0, DXDY: 1}},
		{"upward is normalized", Pt(10, 10), Pt(0, 0), true, Edge{YMin: 0, YMax: 10, XAtYMin: 0, DXDY: 1}},
		{"vertical", Pt(5, 2), Pt(5, 8), true, Edge{YMin: 2, YMax: 8, XAtYMin: 5, DXDY: 0}},
		{"horizontal dropped", Pt(0, 3), Pt(10, 3), false, Edge{}},
		{"nearly horizontal dropped", Pt(0, 3), Pt(10, 3.0005), false, Edge{}},
		{"nan dropped", Pt(nan, 0), Pt(1, 1), false, Edge{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewEdge(tt.p0, tt.p1)
			if ok != tt.wantOK {
				t.Fatalf("NewEdge(%v, %v) ok = %v, want %v", tt.p0, tt.p1, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("NewEdge(%v, %v) = %+v, want %+v", tt.p0, tt.p1, got, tt.want)
			}
		})
	}
}

func TestEdgeXAtYClamps(t *testing.T) {
	e, ok := NewEdge(Pt(0, 0), Pt(10, 10))
	if !ok {
		t.Fatal("NewEdge rejected a valid edge")
	}

	tests := []struct {
		y, want float32
	}{
		{-5, 0},
		{0, 0},
		{5, 5},
		{10, 10},
		{25, 10},
	}
	for _, tt := range tests {
		if got := e.XAtY(tt.y); got != tt.want {
			t.Errorf("XAtY(%v) = %v, want %v", tt.y, got, tt.want)
		}
	}
}

func TestEdgeActiveAtHalfOpen(t *testing.T) {
	e, _ := NewEdge(Pt(0, 2), Pt(0, 4))
	if !e.ActiveAt(2) {
		t.Error("edge should be active at YMin")
	}
	if e.ActiveAt(4) {
		t.Error("edge should not be active at YMax")
	}
}

func TestTessellateSubdivision(t *testing.T) {
	tests := []struct {
		name      string
		segs      []Segment
		wantEdges int
	}{
		{
			name: "triangle closes implicitly",
			segs: []Segment{
				{Verb: MoveTo, Pts: [3]Point{Pt(0, 0)}},
				{Verb: LineTo, Pts: [3]Point{Pt(10, 10)}},
				{Verb: LineTo, Pts: [3]Point{Pt(0, 10)}},
			},
			// the bottom edge is horizontal and dropped
			wantEdges: 2,
		},
		{
			name: "quad is four segments",
			segs: []Segment{
				{Verb: MoveTo, Pts: [3]Point{Pt(0, 0)}},
				{Verb: QuadTo, Pts: [3]Point{Pt(5, 20), Pt(10, 40)}},
				{Verb: Close},
			},
			wantEdges: 4 + 1,
		},
		{
			name: "cubic is eight segments",
			segs: []Segment{
				{Verb: MoveTo, Pts: [3]Point{Pt(0, 0)}},
				{Verb: CubicTo, Pts: [3]Point{Pt(1, 10), Pt(2, 20), Pt(3, 80)}},
				{Verb: Close},
			},
			wantEdges: 8 + 1,
		},
		{
			name:      "empty path",
			segs:      nil,
			wantEdges: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges := Tessellate(tt.segs)
			if len(edges) != tt.wantEdges {
				t.Errorf("Tessellate() produced %d edges, want %d", len(edges), tt.wantEdges)
			}
		})
	}
}

func TestFlattenMultipleSubpaths(t *testing.T) {
	segs := []Segment{
		{Verb: MoveTo, Pts: [3]Point{Pt(0, 0)}},
		{Verb: LineTo, Pts: [3]Point{Pt(4, 0)}},
		{Verb: Close},
		{Verb: MoveTo, Pts: [3]Point{Pt(10, 10)}},
		{Verb: LineTo, Pts: [3]Point{Pt(12, 14)}},
	}
	lines := Flatten(segs)
	if len(lines) != 2 {
		t.Fatalf("Flatten() produced %d polylines, want 2", len(lines))
	}
	if got := lines[0][len(lines[0])-1]; got != Pt(0, 0) {
		t.Errorf("closed subpath ends at %v, want its start", got)
	}
}

func TestBoundsEmpty(t *testing.T) {
	if _, _, _, _, ok := Bounds(nil); ok {
		t.Error("Bounds(nil) reported ok")
	}
}
