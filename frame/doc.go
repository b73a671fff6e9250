// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package frame coordinates redraws across the surfaces of an application.
//
// A Scheduler is owned by the application root and handed to every
// surface. Surfaces register a redraw closure and call Schedule from any
// goroutine when they need a new frame; the UI goroutine drains pending
// work with ProcessFrames:
//
//	sched := frame.NewScheduler()
//	h := sched.Register(func() error { return s.Redraw() })
//	defer sched.Unregister(h)
//
//	for range sched.Wake() {
//		sched.ProcessFrames()
//	}
//
// A failing closure is logged and never stops the remaining surfaces.
package frame
