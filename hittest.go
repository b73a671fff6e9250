package canvas

import (
	"sync"

	"github.com/gogpu/canvas/internal/raster"
)

// HitTestRect reports whether p lies inside r, edges included.
func HitTestRect(r Rect, p Point) bool {
	return r.Contains(p)
}

// HitTestCircle reports whether p lies within radius of center, compared
// by squared distance.
func HitTestCircle(center Point, radius float64, p Point) bool {
	if !(radius > 0) || !center.Finite() || !p.Finite() {
		return false
	}
	return p.Sub(center).LengthSquared() <= radius*radius
}

// HitTestPath reports whether p lies inside path under the odd-even rule.
// The path is tessellated exactly as for filling, so a hit agrees with
// what a fill paints. Path and point share one coordinate space.
func HitTestPath(path *Path, p Point) bool {
	return hitTestPath(path, Identity(), p)
}

func hitTestPath(path *Path, m Matrix, p Point) bool {
	if path == nil || !p.Finite() {
		return false
	}
	b := m.TransformRect(path.Bounds())
	// bounding-box gate before tessellating
	if b.W < 0 || b.H < 0 || p.X < b.X || p.X > b.MaxX() || p.Y < b.Y || p.Y > b.MaxY() {
		return false
	}
	edges := raster.Tessellate(path.segments(m))
	return raster.Contains(edges, float32(p.X), float32(p.Y))
}

// InteractionRegistry maps interactive ids to pointer callbacks and
// tracks which ids the pointer currently hovers.
//
// Callbacks run on the calling goroutine with no registry lock held, so
// they may register or remove handlers.
type InteractionRegistry struct {
	mu      sync.Mutex
	click   map[string]func()
	enter   map[string]func()
	exit    map[string]func()
	hovered map[string]struct{}
}

// NewInteractionRegistry creates an empty registry.
func NewInteractionRegistry() *InteractionRegistry {
	return &InteractionRegistry{
		click:   make(map[string]func()),
		enter:   make(map[string]func()),
		exit:    make(map[string]func()),
		hovered: make(map[string]struct{}),
	}
}

// OnClick sets the click callback of id.
func (r *InteractionRegistry) OnClick(id string, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.click[id] = fn
}

// OnHover sets the hover callbacks of id. Either may be nil.
func (r *InteractionRegistry) OnHover(id string, enter, exit func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enter[id] = enter
	r.exit[id] = exit
}

// Remove drops every callback of id and forgets its hover state without
// firing an exit.
func (r *InteractionRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.click, id)
	delete(r.enter, id)
	delete(r.exit, id)
	delete(r.hovered, id)
}

// HandleClick invokes the click callback of the topmost interactive item
// of list containing p. Only the first match is considered, whether or
// not it has a callback. It reports the id hit.
func (r *InteractionRegistry) HandleClick(list *DisplayList, p Point) (string, bool) {
	if list == nil {
		return "", false
	}
	id, ok := list.HitTest(p)
	if !ok {
		return "", false
	}
	r.mu.Lock()
	fn := r.click[id]
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
	return id, true
}

// HandleHover recomputes the set of hovered ids at p. Enter callbacks
// fire for newly hovered ids, then exit callbacks for ids no longer
// hovered, then the tracked set is replaced.
func (r *InteractionRegistry) HandleHover(list *DisplayList, p Point) {
	current := make(map[string]struct{})
	if list != nil {
		for _, id := range list.HitTestAll(p) {
			current[id] = struct{}{}
		}
	}

	r.mu.Lock()
	var entered, exited []func()
	for id := range current {
		if _, was := r.hovered[id]; !was {
			if fn := r.enter[id]; fn != nil {
				entered = append(entered, fn)
			}
		}
	}
	for id := range r.hovered {
		if _, still := current[id]; !still {
			if fn := r.exit[id]; fn != nil {
				exited = append(exited, fn)
			}
		}
	}
	r.mu.Unlock()

	for _, fn := range entered {
		fn()
	}
	for _, fn := range exited {
		fn()
	}

	r.mu.Lock()
	r.hovered = current
	r.mu.Unlock()
}

// Hovered reports whether id is in the tracked hover set.
func (r *InteractionRegistry) Hovered(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.hovered[id]
	return ok
}

// HoverCount returns the number of hovered ids.
func (r *InteractionRegistry) HoverCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hovered)
}
