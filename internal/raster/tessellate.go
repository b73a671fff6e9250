// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

// Verb identifies a path segment kind.
type Verb uint8

// Path verbs.
const (
	MoveTo Verb = iota
	LineTo
	QuadTo
	CubicTo
	Close
)

// Fixed subdivision counts for curves.
const (
	QuadSteps  = 4
	CubicSteps = 8
)

// Segment is one path command in device space.
// Pts holds, in order: the target (MoveTo, LineTo), control then target
// (QuadTo), or both controls then target (CubicTo).
type Segment struct {
	Verb Verb
	Pts  [3]Point
}

// Flatten converts segments into polylines, one per subpath.
// Curves are subdivided at equal parameter steps. A Close verb appends
// the subpath's start point.
func Flatten(segs []Segment) [][]Point {
	var (
		lines [][]Point
		cur   []Point
		start Point
		pen   Point
	)
	flush := func() {
		if len(cur) > 1 {
			lines = append(lines, cur)
		}
		cur = nil
	}

	for _, s := range segs {
		switch s.Verb {
		case MoveTo:
			flush()
			start, pen = s.Pts[0], s.Pts[0]
			cur = []Point{pen}
		case LineTo:
			if cur == nil {
				cur = []Point{pen}
				start = pen
			}
			pen = s.Pts[0]
			cur = append(cur, pen)
		case QuadTo:
			if cur == nil {
				cur = []Point{pen}
				start = pen
			}
			p0, c, p1 := pen, s.Pts[0], s.Pts[1]
			for i := 1; i <= QuadSteps; i++ {
				t := float32(i) / QuadSteps
				mt := 1 - t
				cur = append(cur, Point{
					X: mt*mt*p0.X + 2*mt*t*c.X + t*t*p1.X,
					Y: mt*mt*p0.Y + 2*mt*t*c.Y + t*t*p1.Y,
				})
			}
			pen = p1
		case CubicTo:
			if cur == nil {
				cur = []Point{pen}
				start = pen
			}
			p0, c1, c2, p1 := pen, s.Pts[0], s.Pts[1], s.Pts[2]
			for i := 1; i <= CubicSteps; i++ {
				t := float32(i) / CubicSteps
				mt := 1 - t
				a := mt * mt * mt
				b := 3 * mt * mt * t
				c := 3 * mt * t * t
				d := t * t * t
				cur = append(cur, Point{
					X: a*p0.X + b*c1.X + c*c2.X + d*p1.X,
					Y: a*p0.Y + b*c1.Y + c*c2.Y + d*p1.Y,
				})
			}
			pen = p1
		case Close:
			if cur != nil {
				cur = append(cur, start)
				flush()
			}
			pen = start
		}
	}
	flush()
	return lines
}

// Tessellate turns segments into the edge list used for filling and
// hit testing. Every subpath is implicitly closed. Edges with less than
// MinEdgeHeight of vertical extent or non-finite endpoints are dropped.
func Tessellate(segs []Segment) []Edge {
	return EdgesFromPolylines(Flatten(segs))
}

// EdgesFromPolylines builds closed-polygon edges from polylines.
func EdgesFromPolylines(lines [][]Point) []Edge {
	edges := make([]Edge, 0, 16)
	for _, line := range lines {
		n := len(line)
		if n < 2 {
			continue
		}
		for i := 0; i < n; i++ {
			j := i + 1
			if j == n {
				j = 0
			}
			if e, ok := NewEdge(line[i], line[j]); ok {
				edges = append(edges, e)
			}
		}
	}
	return edges
}
