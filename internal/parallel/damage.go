package parallel

import "image"

// MaxDamageRects is the number of literal rectangles a DamageRegion
// keeps. Further rectangles only extend the union.
const MaxDamageRects = 16

// DamageRegion accumulates the rectangles of a surface that changed
// since the last published frame.
//
// It always maintains the running union; the literal rectangles are
// kept up to MaxDamageRects for finer-grained consumers. The region is
// consumed once per frame with Take. The first Take, and any Take after
// AddAll, yields the full surface.
//
// Thread safety: DamageRegion is NOT thread-safe.
type DamageRegion struct {
	rects  []image.Rectangle
	union  image.Rectangle
	all    bool
	primed bool // a Take has happened
}

// Add records r as damaged. Rectangles with non-positive area are ignored.
func (d *DamageRegion) Add(r image.Rectangle) {
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return
	}
	if d.all {
		return
	}
	if len(d.rects) < MaxDamageRects {
		d.rects = append(d.rects, r)
	}
	d.union = d.union.Union(r)
}

// AddAll marks the whole surface damaged. The union is resolved to the
// full surface by the next Take, once the size is known.
func (d *DamageRegion) AddAll() {
	d.all = true
	d.rects = d.rects[:0]
	d.union = image.Rectangle{}
}

// Pending reports whether any damage has been recorded since the last Take.
func (d *DamageRegion) Pending() bool {
	return d.all || !d.primed || !d.union.Empty()
}

// Rects returns the literal rectangles recorded since the last Take.
// It is nil after AddAll.
func (d *DamageRegion) Rects() []image.Rectangle {
	return d.rects
}

// Union returns the running union without consuming it.
func (d *DamageRegion) Union() image.Rectangle {
	return d.union
}

// Take returns the damage for a width x height surface and clears the
// region. The result is clipped to the surface. An empty result means
// nothing was reported; callers must then repaint the full surface
// rather than skip the frame.
func (d *DamageRegion) Take(width, height int) image.Rectangle {
	full := image.Rect(0, 0, max(width, 0), max(height, 0))
	r := d.union.Intersect(full)
	if d.all || !d.primed {
		r = full
	}
	d.Reset()
	d.primed = true
	return r
}

// Reset drops all recorded damage without consuming it. The next Take
// is not forced to the full surface.
func (d *DamageRegion) Reset() {
	d.rects = d.rects[:0]
	d.union = image.Rectangle{}
	d.all = false
}

// Unprime makes the next Take yield the full surface, as after a resize.
func (d *DamageRegion) Unprime() {
	d.primed = false
}
