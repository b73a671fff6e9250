// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"log/slog"

	"github.com/gogpu/canvas"
)

// PaintFunc records one frame. It runs with no surface lock held.
type PaintFunc func(dc *canvas.Context) error

// BlitFunc presents a finished frame. The frame stays valid until the
// next redraw; BlitFunc must not Release it.
type BlitFunc func(f *canvas.Frame) error

// Option configures a Surface.
type Option func(*config)

type config struct {
	raster []canvas.Option
	paint  PaintFunc
	blit   BlitFunc
	logger *slog.Logger
}

// WithRasterizerOptions passes options to the surface's rasterizer.
func WithRasterizerOptions(opts ...canvas.Option) Option {
	return func(c *config) {
		c.raster = append(c.raster, opts...)
	}
}

// WithPaint sets the paint callback.
func WithPaint(fn PaintFunc) Option {
	return func(c *config) {
		c.paint = fn
	}
}

// WithBlit sets the callback that presents each frame.
func WithBlit(fn BlitFunc) Option {
	return func(c *config) {
		c.blit = fn
	}
}

// WithLogger sets the surface logger. The default is canvas.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
