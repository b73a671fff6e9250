// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/frame"
)

func newTestSurface(t *testing.T, w, h int, scale float64, opts ...Option) (*Surface, *frame.Scheduler) {
	t.Helper()
	sched := frame.NewScheduler()
	opts = append([]Option{WithRasterizerOptions(canvas.WithWorkers(2))}, opts...)
	s, err := New(sched, w, h, scale, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, sched
}

func TestSurfaceFirstFrame(t *testing.T) {
	var blits []*canvas.Frame
	s, sched := newTestSurface(t, 32, 32, 1,
		WithPaint(func(dc *canvas.Context) error {
			dc.Clear(canvas.Red)
			return nil
		}),
		WithBlit(func(f *canvas.Frame) error {
			blits = append(blits, f)
			return nil
		}),
	)

	if !s.NeedsRedraw() || !sched.Pending() {
		t.Fatal("New did not request the first frame")
	}
	if ran, failed := sched.ProcessFrames(); ran != 1 || failed != 0 {
		t.Fatalf("ProcessFrames = %d, %d, want 1, 0", ran, failed)
	}
	if len(blits) != 1 {
		t.Fatalf("blit ran %d times, want 1", len(blits))
	}
	if got := blits[0].At(31, 31); got != canvas.Red {
		t.Errorf("pixel = %v, want red", got)
	}
	if blits[0].Damage != image.Rect(0, 0, 32, 32) {
		t.Errorf("first frame damage = %v, want full surface", blits[0].Damage)
	}
	if s.NeedsRedraw() {
		t.Error("NeedsRedraw after frame = true")
	}

	// No request, no frame.
	sched.Schedule()
	sched.ProcessFrames()
	if len(blits) != 1 {
		t.Errorf("unrequested redraw blitted, count = %d", len(blits))
	}
}

func TestSurfaceInvalidateScaled(t *testing.T) {
	color := canvas.Red
	var last *canvas.Frame
	s, sched := newTestSurface(t, 256, 256, 2,
		WithRasterizerOptions(canvas.WithAutoDamage(false)),
		WithPaint(func(dc *canvas.Context) error {
			dc.Clear(color)
			return nil
		}),
		WithBlit(func(f *canvas.Frame) error {
			last = f
			return nil
		}),
	)
	sched.ProcessFrames()

	color = canvas.Blue
	s.Invalidate(canvas.R(0, 0, 10, 10)) // 20x20 device pixels
	sched.ProcessFrames()

	if last.Damage != image.Rect(0, 0, 20, 20) {
		t.Errorf("Damage = %v, want (0,0)-(20,20)", last.Damage)
	}
	if last.DirtyTiles != 1 {
		t.Errorf("DirtyTiles = %d, want 1", last.DirtyTiles)
	}
	if got := last.At(5, 5); got != canvas.Blue {
		t.Errorf("damaged pixel = %v, want blue", got)
	}
	if got := last.At(200, 200); got != canvas.Red {
		t.Errorf("undamaged pixel = %v, want red", got)
	}

	s.InvalidateAll()
	sched.ProcessFrames()
	if last.DirtyTiles != 16 {
		t.Errorf("DirtyTiles after InvalidateAll = %d, want 16", last.DirtyTiles)
	}
}

func TestSurfaceResize(t *testing.T) {
	s, sched := newTestSurface(t, 32, 32, 1, WithPaint(func(dc *canvas.Context) error {
		dc.Clear(canvas.Green)
		return nil
	}))
	sched.ProcessFrames()

	if err := s.Resize(100, 50, 2); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if w, h, scale := s.Size(); w != 100 || h != 50 || scale != 2 {
		t.Errorf("Size = %d, %d, %v, want 100, 50, 2", w, h, scale)
	}
	sched.ProcessFrames()
	img := s.Snapshot()
	if img == nil {
		t.Fatal("Snapshot() = nil after a frame")
	}
	if img.Bounds() != image.Rect(0, 0, 100, 50) {
		t.Errorf("Snapshot bounds = %v, want 100x50", img.Bounds())
	}
	if st := s.Stats(); st.LastDirtyTiles != 2 || st.Frames != 2 {
		t.Errorf("Stats = %+v, want 2 frames, 2 dirty tiles", st)
	}
	if err := s.Resize(0, 10, 1); !errors.Is(err, canvas.ErrInvalidSize) {
		t.Errorf("Resize(0, 10) = %v, want ErrInvalidSize", err)
	}
}

func TestSurfacePointerDispatch(t *testing.T) {
	s, sched := newTestSurface(t, 200, 200, 2, WithPaint(func(dc *canvas.Context) error {
		dc.Clear(canvas.White)
		dc.DrawRectInteractive("button", canvas.R(10, 10, 20, 20), canvas.Fill(canvas.Blue))
		return nil
	}))

	var clicks, enters, exits int
	s.Interactions().OnClick("button", func() {
		clicks++
		s.RequestRedraw() // callbacks may call back into the surface
	})
	s.Interactions().OnHover("button", func() { enters++ }, func() { exits++ })

	if _, ok := s.HandleClick(30, 30); ok {
		t.Error("click before the first frame hit")
	}
	sched.ProcessFrames()

	// The button covers device pixels (20,20)-(60,60) at scale 2.
	if id, ok := s.HandleClick(30, 30); !ok || id != "button" {
		t.Errorf("HandleClick(30, 30) = %q, %v, want button", id, ok)
	}
	if _, ok := s.HandleClick(15, 15); ok {
		t.Error("HandleClick(15, 15) hit user-space coordinates, want miss")
	}
	if clicks != 1 || !s.NeedsRedraw() {
		t.Errorf("clicks = %d, NeedsRedraw = %v, want 1, true", clicks, s.NeedsRedraw())
	}

	// The hit list survives the next frame's recording.
	sched.ProcessFrames()
	s.HandleHover(40, 40)
	s.HandleHover(120, 120)
	if enters != 1 || exits != 1 {
		t.Errorf("enters, exits = %d, %d, want 1, 1", enters, exits)
	}
}

func TestSurfacePaintError(t *testing.T) {
	fail := true
	var blits int
	s, sched := newTestSurface(t, 16, 16, 1,
		WithPaint(func(dc *canvas.Context) error {
			dc.Clear(canvas.Red)
			if fail {
				return errors.New("paint broke")
			}
			return nil
		}),
		WithBlit(func(*canvas.Frame) error { blits++; return nil }),
	)

	if _, failed := sched.ProcessFrames(); failed != 1 {
		t.Fatalf("failed = %d, want 1", failed)
	}
	if blits != 0 || s.Snapshot() != nil {
		t.Errorf("failed paint published a frame: blits = %d", blits)
	}
	fail = false
	s.RequestRedraw()
	sched.ProcessFrames()
	if blits != 1 {
		t.Fatalf("blits = %d, want 1", blits)
	}
	if got := s.Stats().LastDirtyTiles; got != 1 {
		t.Errorf("LastDirtyTiles = %d, want the full surface (1)", got)
	}
}

func TestSurfaceReentrantRedraw(t *testing.T) {
	var s *Surface
	var inner error
	s, sched := newTestSurface(t, 16, 16, 1, WithPaint(func(dc *canvas.Context) error {
		s.RequestRedraw()
		inner = s.Redraw()
		return nil
	}))
	sched.ProcessFrames()
	if inner != nil {
		t.Errorf("nested Redraw() = %v, want nil", inner)
	}
	if !s.NeedsRedraw() {
		t.Error("nested redraw was dropped instead of requeued")
	}
}

func TestSurfaceClose(t *testing.T) {
	s, sched := newTestSurface(t, 16, 16, 1)
	sched.ProcessFrames()
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
	if sched.Len() != 0 {
		t.Errorf("scheduler Len = %d after Close, want 0", sched.Len())
	}
	if err := s.Redraw(); !errors.Is(err, ErrClosed) {
		t.Errorf("Redraw after Close = %v, want ErrClosed", err)
	}
	if err := s.Resize(8, 8, 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Resize after Close = %v, want ErrClosed", err)
	}
	if _, ok := s.HandleClick(1, 1); ok {
		t.Error("HandleClick after Close hit")
	}
	if s.Snapshot() != nil {
		t.Error("Snapshot after Close returned a frame")
	}
}

func TestSurfaceCloseDuringPaint(t *testing.T) {
	var s *Surface
	var calls int
	s, sched := newTestSurface(t, 16, 16, 1, WithPaint(func(dc *canvas.Context) error {
		calls++
		_ = s.Close()
		dc.Clear(canvas.Red)
		return nil
	}))
	if _, failed := sched.ProcessFrames(); failed != 1 {
		t.Errorf("failed = %d, want 1 (ErrClosed)", failed)
	}
	if calls != 1 {
		t.Errorf("paint ran %d times, want 1", calls)
	}
	if s.Stats() != (canvas.RasterStats{}) {
		t.Error("rasterizer not released after Close during paint")
	}
}
