// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/canvas"
)

// ErrStaleHandle is returned when unregistering a handle whose closure
// was already removed.
var ErrStaleHandle = errors.New("frame: stale handle")

// RedrawFunc renders one surface. It runs on the goroutine calling
// ProcessFrames, with no scheduler lock held.
type RedrawFunc func() error

// Handle identifies one registration. A slot index is reused after
// Unregister, but with a new generation, so old handles stay invalid.
type Handle struct {
	index      uint32
	generation uint32
}

// Valid reports whether h was returned by Register. A valid handle may
// still be stale.
func (h Handle) Valid() bool {
	return h.generation != 0
}

type slot struct {
	fn         RedrawFunc
	generation uint32
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger for redraw failures. The default is
// canvas.Logger() at the time of each report.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// Scheduler tracks whether a redraw is due and which closures to run.
//
// Schedule, Register and Unregister are safe for concurrent use.
// ProcessFrames is meant to be called from one goroutine.
type Scheduler struct {
	mu        sync.Mutex
	scheduled bool
	slots     []slot
	free      []uint32
	live      int

	wake   chan struct{}
	logger *slog.Logger
}

// NewScheduler creates a scheduler with nothing registered.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{wake: make(chan struct{}, 1)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return canvas.Logger()
}

// Register adds fn to the closures run by ProcessFrames.
func (s *Scheduler) Register(fn RedrawFunc) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.live++
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		sl := &s.slots[idx]
		sl.fn = fn
		return Handle{index: idx, generation: sl.generation}
	}
	s.slots = append(s.slots, slot{fn: fn, generation: 1})
	return Handle{index: uint32(len(s.slots) - 1), generation: 1}
}

// Unregister removes the closure of h. It returns ErrStaleHandle if h
// was already unregistered or never issued by s.
func (s *Scheduler) Unregister(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int(h.index) >= len(s.slots) {
		return fmt.Errorf("%w: index %d", ErrStaleHandle, h.index)
	}
	sl := &s.slots[h.index]
	if sl.fn == nil || sl.generation != h.generation {
		return fmt.Errorf("%w: index %d generation %d", ErrStaleHandle, h.index, h.generation)
	}
	sl.fn = nil
	sl.generation++
	if sl.generation == 0 {
		sl.generation = 1
	}
	s.free = append(s.free, h.index)
	s.live--
	return nil
}

// Len returns the number of registered closures.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// Schedule marks a redraw as due. It may be called from any goroutine,
// any number of times; one ProcessFrames call serves all of them.
func (s *Scheduler) Schedule() {
	s.mu.Lock()
	was := s.scheduled
	s.scheduled = true
	s.mu.Unlock()

	if !was {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

// Pending reports whether a redraw is due.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduled
}

// Wake returns a channel that receives a value when Schedule makes a
// redraw due. It is never closed.
func (s *Scheduler) Wake() <-chan struct{} {
	return s.wake
}

// ProcessFrames clears the scheduled flag and, if it was set, runs every
// registered closure in registration slot order. A closure registered or
// scheduled while others run is picked up by the next call.
//
// It returns the number of closures run and how many of them failed.
func (s *Scheduler) ProcessFrames() (ran, failed int) {
	s.mu.Lock()
	if !s.scheduled {
		s.mu.Unlock()
		return 0, 0
	}
	s.scheduled = false
	fns := make([]RedrawFunc, 0, s.live)
	for _, sl := range s.slots {
		if sl.fn != nil {
			fns = append(fns, sl.fn)
		}
	}
	s.mu.Unlock()

	for i, fn := range fns {
		ran++
		if err := runRedraw(fn); err != nil {
			failed++
			s.log().Warn("frame: redraw failed", "surface", i, "err", err)
		}
	}
	if failed > 0 {
		s.log().Debug("frame: frames processed", "ran", ran, "failed", failed)
	}
	return ran, failed
}

// runRedraw calls fn, turning a panic into an error so one surface cannot
// take down the others.
func runRedraw(fn RedrawFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("frame: redraw panicked: %v", r)
		}
	}()
	return fn()
}

// Run processes frames each time a redraw becomes due until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
			s.ProcessFrames()
		}
	}
}
