package canvas

import (
	"math"

	"github.com/gogpu/canvas/internal/raster"
)

// PathElement represents a single element in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo starts a new subpath at a point.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isPathElement() {}

// Path represents a vector path in user space.
//
// Paths are filled with the odd-even rule. Curves are flattened at draw
// time with fixed subdivision counts (4 for quadratics, 8 for cubics).
type Path struct {
	elements []PathElement
	start    Point // Starting point of current subpath
	current  Point // Current point
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		elements: make([]PathElement, 0, 16),
	}
}

// MoveTo moves to a point without drawing.
func (p *Path) MoveTo(x, y float64) *Path {
	pt := Pt(x, y)
	p.elements = append(p.elements, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
	return p
}

// LineTo draws a line to a point.
func (p *Path) LineTo(x, y float64) *Path {
	pt := Pt(x, y)
	p.elements = append(p.elements, LineTo{Point: pt})
	p.current = pt
	return p
}

// QuadTo draws a quadratic Bezier curve.
func (p *Path) QuadTo(cx, cy, x, y float64) *Path {
	pt := Pt(x, y)
	p.elements = append(p.elements, QuadTo{Control: Pt(cx, cy), Point: pt})
	p.current = pt
	return p
}

// CubicTo draws a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) *Path {
	pt := Pt(x, y)
	p.elements = append(p.elements, CubicTo{
		Control1: Pt(c1x, c1y),
		Control2: Pt(c2x, c2y),
		Point:    pt,
	})
	p.current = pt
	return p
}

// Close closes the current subpath by drawing a line to the start point.
func (p *Path) Close() *Path {
	p.elements = append(p.elements, Close{})
	p.current = p.start
	return p
}

// Clear removes all elements from the path.
func (p *Path) Clear() {
	p.elements = p.elements[:0]
	p.start = Point{}
	p.current = Point{}
}

// Elements returns the path elements.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// Len returns the number of elements.
func (p *Path) Len() int {
	return len(p.elements)
}

// CurrentPoint returns the current point.
func (p *Path) CurrentPoint() Point {
	return p.current
}

// Rectangle adds a rectangle to the path.
func (p *Path) Rectangle(x, y, w, h float64) *Path {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	return p.Close()
}

// Circle adds a circle to the path using cubic Bezier curves.
func (p *Path) Circle(cx, cy, r float64) *Path {
	// Magic constant for circle approximation with cubic Beziers
	const k = 0.5522847498307936 // 4/3 * (sqrt(2) - 1)
	offset := r * k

	p.MoveTo(cx+r, cy)
	p.CubicTo(cx+r, cy+offset, cx+offset, cy+r, cx, cy+r)
	p.CubicTo(cx-offset, cy+r, cx-r, cy+offset, cx-r, cy)
	p.CubicTo(cx-r, cy-offset, cx-offset, cy-r, cx, cy-r)
	p.CubicTo(cx+offset, cy-r, cx+r, cy-offset, cx+r, cy)
	return p.Close()
}

// Arc adds a circular arc from angle1 to angle2 (radians) around (cx, cy).
// A line joins the current point to the arc start if the path is not empty.
func (p *Path) Arc(cx, cy, r, angle1, angle2 float64) *Path {
	if !finite(angle1) || !finite(angle2) || !(r > 0) {
		return p
	}
	for angle2 < angle1 {
		angle2 += 2 * math.Pi
	}

	// at most a quarter turn per cubic
	n := max(1, int(math.Ceil((angle2-angle1)/(math.Pi/2))))
	step := (angle2 - angle1) / float64(n)

	x0, y0 := cx+r*math.Cos(angle1), cy+r*math.Sin(angle1)
	if len(p.elements) == 0 {
		p.MoveTo(x0, y0)
	} else {
		p.LineTo(x0, y0)
	}
	for i := range n {
		a1 := angle1 + float64(i)*step
		p.arcSegment(cx, cy, r, a1, a1+step)
	}
	return p
}

// arcSegment appends one cubic approximating an arc of at most 90 degrees.
func (p *Path) arcSegment(cx, cy, r, a1, a2 float64) {
	t := math.Tan((a2 - a1) / 2)
	alpha := math.Sin(a2-a1) * (math.Sqrt(4+3*t*t) - 1) / 3

	cos1, sin1 := math.Cos(a1), math.Sin(a1)
	cos2, sin2 := math.Cos(a2), math.Sin(a2)

	x1, y1 := cx+r*cos1, cy+r*sin1
	x2, y2 := cx+r*cos2, cy+r*sin2

	p.CubicTo(
		x1-alpha*r*sin1, y1+alpha*r*cos1,
		x2+alpha*r*sin2, y2-alpha*r*cos2,
		x2, y2,
	)
}

// RoundedRectangle adds a rectangle with rounded corners.
func (p *Path) RoundedRectangle(x, y, w, h, r float64) *Path {
	r = math.Max(0, math.Min(r, math.Min(w, h)/2))
	if r == 0 {
		return p.Rectangle(x, y, w, h)
	}

	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.arcSegment(x+w-r, y+r, r, -math.Pi/2, 0)
	p.LineTo(x+w, y+h-r)
	p.arcSegment(x+w-r, y+h-r, r, 0, math.Pi/2)
	p.LineTo(x+r, y+h)
	p.arcSegment(x+r, y+h-r, r, math.Pi/2, math.Pi)
	p.LineTo(x, y+r)
	p.arcSegment(x+r, y+r, r, math.Pi, 3*math.Pi/2)
	return p.Close()
}

// Clone creates a deep copy of the path.
func (p *Path) Clone() *Path {
	result := NewPath()
	result.elements = append(result.elements, p.elements...)
	result.start = p.start
	result.current = p.current
	return result
}

// Bounds returns the bounding box of every point of the path, control
// points included.
func (p *Path) Bounds() Rect {
	var (
		r     Rect
		found bool
	)
	add := func(pt Point) {
		if !pt.Finite() {
			return
		}
		if !found {
			r = Rect{X: pt.X, Y: pt.Y}
			found = true
			return
		}
		r = unionPoint(r, pt)
	}
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			add(e.Point)
		case LineTo:
			add(e.Point)
		case QuadTo:
			add(e.Control)
			add(e.Point)
		case CubicTo:
			add(e.Control1)
			add(e.Control2)
			add(e.Point)
		}
	}
	return r
}

func unionPoint(r Rect, pt Point) Rect {
	x0, y0 := math.Min(r.X, pt.X), math.Min(r.Y, pt.Y)
	x1, y1 := math.Max(r.MaxX(), pt.X), math.Max(r.MaxY(), pt.Y)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// segments returns the path in device space as raster segments.
func (p *Path) segments(m Matrix) []raster.Segment {
	out := make([]raster.Segment, 0, len(p.elements))
	dev := func(pt Point) raster.Point {
		q := m.TransformPoint(pt)
		return raster.Pt(float32(q.X), float32(q.Y))
	}
	for _, elem := range p.elements {
		var s raster.Segment
		switch e := elem.(type) {
		case MoveTo:
			s = raster.Segment{Verb: raster.MoveTo, Pts: [3]raster.Point{dev(e.Point)}}
		case LineTo:
			s = raster.Segment{Verb: raster.LineTo, Pts: [3]raster.Point{dev(e.Point)}}
		case QuadTo:
			s = raster.Segment{Verb: raster.QuadTo, Pts: [3]raster.Point{dev(e.Control), dev(e.Point)}}
		case CubicTo:
			s = raster.Segment{Verb: raster.CubicTo, Pts: [3]raster.Point{dev(e.Control1), dev(e.Control2), dev(e.Point)}}
		case Close:
			s = raster.Segment{Verb: raster.Close}
		default:
			continue
		}
		out = append(out, s)
	}
	return out
}
