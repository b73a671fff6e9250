// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/frame"
	"github.com/gogpu/canvas/internal/parallel"
)

// ErrClosed is returned by operations on a closed Surface.
var ErrClosed = errors.New("surface: closed")

// Surface is one custom-drawn surface.
//
// Sizes and pointer coordinates are in surface (device) pixels. Drawing
// and Invalidate use user space, which is device space divided by the
// scale factor.
//
// All methods are safe for concurrent use. Redraw is normally called by
// the scheduler on the UI goroutine.
type Surface struct {
	sched  *frame.Scheduler
	handle frame.Handle
	reg    *canvas.InteractionRegistry
	logger *slog.Logger
	closed atomic.Bool

	metricsMu     sync.Mutex
	width, height int
	scale         float64

	redrawMu    sync.Mutex
	needsRedraw bool

	damageMu sync.Mutex
	damage   parallel.DamageRegion

	renderMu sync.Mutex
	raster   *canvas.Rasterizer
	busy     bool
	hits     *canvas.DisplayList
	last     *canvas.Frame

	paintMu sync.Mutex
	paint   PaintFunc
	blit    BlitFunc
}

// New creates a surface of width x height device pixels at the given
// scale factor and registers it with sched. The first frame is requested
// immediately.
func New(sched *frame.Scheduler, width, height int, scale float64, opts ...Option) (*Surface, error) {
	if sched == nil {
		return nil, errors.New("surface: nil scheduler")
	}
	var c config
	for _, opt := range opts {
		opt(&c)
	}

	r, err := canvas.NewRasterizer(c.raster...)
	if err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}
	if err := r.Init(width, height, scale); err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}

	s := &Surface{
		sched:  sched,
		reg:    canvas.NewInteractionRegistry(),
		logger: c.logger,
		width:  width,
		height: height,
		scale:  scale,
		raster: r,
		hits:   canvas.NewDisplayList(),
		paint:  c.paint,
		blit:   c.blit,
	}
	s.handle = sched.Register(s.Redraw)
	s.RequestRedraw()
	return s, nil
}

func (s *Surface) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return canvas.Logger()
}

// SetPaint replaces the paint callback.
func (s *Surface) SetPaint(fn PaintFunc) {
	s.paintMu.Lock()
	s.paint = fn
	s.paintMu.Unlock()
}

// SetBlit replaces the blit callback.
func (s *Surface) SetBlit(fn BlitFunc) {
	s.paintMu.Lock()
	s.blit = fn
	s.paintMu.Unlock()
}

// Size returns the surface size in device pixels and its scale factor.
func (s *Surface) Size() (width, height int, scale float64) {
	s.metricsMu.Lock()
	defer s.metricsMu.Unlock()
	return s.width, s.height, s.scale
}

// Resize changes the surface size. The rasterizer is reallocated by the
// next redraw, which repaints everything.
func (s *Surface) Resize(width, height int, scale float64) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if width <= 0 || height <= 0 || !(scale > 0) {
		return fmt.Errorf("%w: %dx%d at scale %v", canvas.ErrInvalidSize, width, height, scale)
	}
	s.metricsMu.Lock()
	s.width, s.height, s.scale = width, height, scale
	s.metricsMu.Unlock()
	s.RequestRedraw()
	return nil
}

// Invalidate marks a user-space rectangle for repaint and requests a
// redraw.
func (s *Surface) Invalidate(r canvas.Rect) {
	if s.closed.Load() {
		return
	}
	s.metricsMu.Lock()
	w, h, scale := s.width, s.height, s.scale
	s.metricsMu.Unlock()

	dev := canvas.R(r.X*scale, r.Y*scale, r.W*scale, r.H*scale)
	s.damageMu.Lock()
	s.damage.Add(dev.Pixels(image.Rect(0, 0, w, h)))
	s.damageMu.Unlock()
	s.RequestRedraw()
}

// InvalidateAll marks the whole surface for repaint and requests a redraw.
func (s *Surface) InvalidateAll() {
	if s.closed.Load() {
		return
	}
	s.damageMu.Lock()
	s.damage.AddAll()
	s.damageMu.Unlock()
	s.RequestRedraw()
}

// RequestRedraw marks the surface as needing a frame and schedules one.
// It may be called from any goroutine.
func (s *Surface) RequestRedraw() {
	if s.closed.Load() {
		return
	}
	s.redrawMu.Lock()
	s.needsRedraw = true
	s.redrawMu.Unlock()
	s.sched.Schedule()
}

// NeedsRedraw reports whether a frame has been requested and not yet
// rendered.
func (s *Surface) NeedsRedraw() bool {
	s.redrawMu.Lock()
	defer s.redrawMu.Unlock()
	return s.needsRedraw
}

// Redraw renders one frame if one was requested. A redraw requested while
// another is in progress runs on the next scheduler pass.
func (s *Surface) Redraw() error {
	if s.closed.Load() {
		return ErrClosed
	}

	s.metricsMu.Lock()
	w, h, scale := s.width, s.height, s.scale
	s.metricsMu.Unlock()

	s.redrawMu.Lock()
	if !s.needsRedraw {
		s.redrawMu.Unlock()
		return nil
	}
	s.needsRedraw = false
	s.redrawMu.Unlock()

	s.damageMu.Lock()
	reported := s.damage.Pending()
	damage := s.damage.Take(w, h)
	s.damageMu.Unlock()

	dc, err := s.begin(w, h, scale, reported, damage)
	if err != nil || dc == nil {
		return err
	}

	s.paintMu.Lock()
	paint, blit := s.paint, s.blit
	s.paintMu.Unlock()

	var paintErr error
	if paint != nil {
		paintErr = paint(dc)
	}

	f, err := s.end(paintErr)
	if err != nil {
		return err
	}
	if blit != nil {
		if err := blit(f); err != nil {
			return fmt.Errorf("surface: blit: %w", err)
		}
	}
	return nil
}

// begin applies pending metrics and damage to the rasterizer and starts a
// frame. It returns a nil Context when another redraw owns the rasterizer.
func (s *Surface) begin(w, h int, scale float64, reported bool, damage image.Rectangle) (*canvas.Context, error) {
	s.renderMu.Lock()
	if s.busy {
		s.renderMu.Unlock()
		s.log().Debug("surface: redraw already in progress")
		s.requeue(reported, damage)
		return nil, nil
	}
	if s.raster == nil {
		s.renderMu.Unlock()
		return nil, ErrClosed
	}
	defer s.renderMu.Unlock()

	if rw, rh := s.raster.Size(); rw != w || rh != h || s.raster.ScaleFactor() != scale {
		if err := s.raster.Resize(w, h, scale); err != nil {
			return nil, fmt.Errorf("surface: %w", err)
		}
	}
	if reported {
		s.raster.AddDamage(damage)
	}
	dc, err := s.raster.BeginFrame()
	if err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}
	s.busy = true
	return dc, nil
}

// requeue restores damage taken by a redraw that could not run and asks
// for another pass. Called with no lock held.
func (s *Surface) requeue(reported bool, damage image.Rectangle) {
	if reported {
		s.damageMu.Lock()
		if damage.Empty() {
			s.damage.AddAll()
		} else {
			s.damage.Add(damage)
		}
		s.damageMu.Unlock()
	}
	s.RequestRedraw()
}

// end finishes the frame started by begin and publishes it.
func (s *Surface) end(paintErr error) (*canvas.Frame, error) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	s.busy = false

	f, err := s.raster.EndFrame(context.Background())
	if s.closed.Load() {
		if err == nil {
			f.Release()
		}
		s.releaseLocked()
		return nil, ErrClosed
	}
	if err != nil {
		s.raster.AddAllDamage()
		return nil, fmt.Errorf("surface: %w", err)
	}
	if paintErr != nil {
		f.Release()
		s.raster.AddAllDamage()
		s.log().Warn("surface: paint failed", "err", paintErr)
		return nil, fmt.Errorf("surface: paint: %w", paintErr)
	}

	s.hits = s.raster.DisplayList().Clone()
	if s.last != nil {
		s.last.Release()
	}
	s.last = f
	return f, nil
}

// Interactions returns the registry used for pointer dispatch.
func (s *Surface) Interactions() *canvas.InteractionRegistry {
	return s.reg
}

// hitList returns the display list of the last published frame.
func (s *Surface) hitList() *canvas.DisplayList {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	return s.hits
}

// HandleClick dispatches a click at surface pixel (x, y) to the topmost
// interactive item of the last frame. It returns the id that was hit.
func (s *Surface) HandleClick(x, y float64) (string, bool) {
	if s.closed.Load() {
		return "", false
	}
	return s.reg.HandleClick(s.hitList(), canvas.Pt(x, y))
}

// HandleHover updates the hover state for a pointer at surface pixel
// (x, y), running enter and exit callbacks.
func (s *Surface) HandleHover(x, y float64) {
	if s.closed.Load() {
		return
	}
	s.reg.HandleHover(s.hitList(), canvas.Pt(x, y))
}

// Snapshot returns a copy of the last published frame, or nil before the
// first frame.
func (s *Surface) Snapshot() *image.NRGBA {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	if s.last == nil {
		return nil
	}
	return s.last.Image()
}

// Stats returns the rasterizer counters.
func (s *Surface) Stats() canvas.RasterStats {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	if s.raster == nil {
		return canvas.RasterStats{}
	}
	return s.raster.Stats()
}

// Close unregisters the surface and releases its rasterizer. It is safe
// to call more than once; only the first call does anything.
func (s *Surface) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := s.sched.Unregister(s.handle)

	s.renderMu.Lock()
	if !s.busy {
		s.releaseLocked()
	}
	s.renderMu.Unlock()

	s.log().Debug("surface: closed")
	return err
}

// releaseLocked frees the rasterizer and the last frame. A redraw in
// progress during Close calls it when its frame ends. Called with
// renderMu held.
func (s *Surface) releaseLocked() {
	if s.last != nil {
		s.last.Release()
		s.last = nil
	}
	if s.raster != nil {
		s.raster.Cleanup()
		s.raster = nil
	}
	s.hits = canvas.NewDisplayList()
}
