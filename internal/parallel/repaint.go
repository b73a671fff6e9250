package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// PaintFunc repaints one tile. It must only touch t.
type PaintFunc func(ctx context.Context, t *Tile) error

// Repaint calls paint for every tile in tiles using at most workers
// goroutines (GOMAXPROCS when workers <= 0) and marks each tile clean
// after a successful paint. The first error cancels the remaining tiles
// and is returned.
//
// Each tile is handed to exactly one goroutine, so paint needs no
// locking for tile pixels.
func Repaint(ctx context.Context, tiles []*Tile, workers int, paint PaintFunc) error {
	if len(tiles) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if workers == 1 || len(tiles) == 1 {
		for _, t := range tiles {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := paint(ctx, t); err != nil {
				return err
			}
			t.Dirty = false
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, t := range tiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := paint(gctx, t); err != nil {
				return err
			}
			t.Dirty = false
			return nil
		})
	}
	return g.Wait()
}
