// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface drives one custom-drawn surface.
//
// A Surface ties together a canvas.Rasterizer, the damage reported by the
// application, a frame.Scheduler shared with the other surfaces of the
// process, and pointer dispatch through a canvas.InteractionRegistry.
//
// Basic usage:
//
//	sched := frame.NewScheduler()
//	s, err := surface.New(sched, 800, 600, 2,
//		surface.WithPaint(func(dc *canvas.Context) error {
//			dc.Clear(canvas.White)
//			dc.DrawRectInteractive("ok", canvas.R(10, 10, 80, 24), canvas.Fill(canvas.Blue))
//			return nil
//		}),
//		surface.WithBlit(func(f *canvas.Frame) error {
//			return window.Present(f.Pix)
//		}),
//	)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	s.Interactions().OnClick("ok", submit)
//	s.RequestRedraw()
//	sched.ProcessFrames()
//
// # Locking
//
// A Surface guards its state with one mutex per concern and acquires them
// only in the order metrics, needs-redraw, damage, render, paint. No lock
// is held while the paint, blit or pointer callbacks run, so callbacks may
// call back into the surface or the scheduler.
package surface
