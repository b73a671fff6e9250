package parallel

import "sync"

// TilePool provides reuse of tile buffers via sync.Pool.
//
// Every tile buffer has the same fixed size, so one pool serves edge
// tiles and full tiles alike.
//
// Thread safety: TilePool is safe for concurrent use.
type TilePool struct {
	pool sync.Pool
}

// NewTilePool creates a new tile pool.
func NewTilePool() *TilePool {
	p := &TilePool{}
	p.pool.New = func() any {
		return &Tile{Pix: make([]uint32, TilePixels)}
	}
	return p
}

// Get returns a zeroed tile at grid position (tx, ty) with the given
// valid dimensions. It returns nil for non-positive dimensions.
func (p *TilePool) Get(tx, ty, width, height int) *Tile {
	if width <= 0 || height <= 0 {
		return nil
	}
	t := p.pool.Get().(*Tile)
	t.reset()
	t.X, t.Y = tx, ty
	t.Width = min(width, TileWidth)
	t.Height = min(height, TileHeight)
	return t
}

// Put returns a tile to the pool. It is a no-op for nil.
func (p *TilePool) Put(t *Tile) {
	if t == nil || len(t.Pix) != TilePixels {
		return
	}
	p.pool.Put(t)
}

// defaultPool is shared by every TileStore.
var defaultPool = NewTilePool()
