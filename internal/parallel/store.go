package parallel

import "image"

// TileStore manages the tile grid of one framebuffer.
//
// The grid holds ceil(width/64) x ceil(height/64) tiles in row-major
// order. Tile content persists across frames; only dirty tiles are
// repainted. A new store starts with every tile dirty.
//
// Thread safety: TileStore is NOT thread-safe.
type TileStore struct {
	tiles  []*Tile
	tilesX int
	tilesY int
	width  int
	height int
	pool   *TilePool
}

// NewTileStore creates a store covering a width x height framebuffer.
// Non-positive dimensions yield an empty store.
func NewTileStore(width, height int) *TileStore {
	s := &TileStore{pool: defaultPool}
	if width <= 0 || height <= 0 {
		return s
	}

	s.width, s.height = width, height
	s.tilesX = (width + TileWidth - 1) / TileWidth
	s.tilesY = (height + TileHeight - 1) / TileHeight
	s.tiles = make([]*Tile, s.tilesX*s.tilesY)

	for ty := range s.tilesY {
		for tx := range s.tilesX {
			// edge tiles are clipped to the framebuffer
			w := min(TileWidth, width-tx*TileWidth)
			h := min(TileHeight, height-ty*TileHeight)
			t := s.pool.Get(tx, ty, w, h)
			t.Dirty = true
			s.tiles[ty*s.tilesX+tx] = t
		}
	}
	return s
}

// Width returns the framebuffer width in pixels.
func (s *TileStore) Width() int { return s.width }

// Height returns the framebuffer height in pixels.
func (s *TileStore) Height() int { return s.height }

// TilesX returns the number of tile columns.
func (s *TileStore) TilesX() int { return s.tilesX }

// TilesY returns the number of tile rows.
func (s *TileStore) TilesY() int { return s.tilesY }

// TileCount returns the number of tiles.
func (s *TileStore) TileCount() int { return len(s.tiles) }

// Bounds returns the framebuffer rectangle.
func (s *TileStore) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// TileAt returns the tile at grid position (tx, ty), or nil.
func (s *TileStore) TileAt(tx, ty int) *Tile {
	if tx < 0 || tx >= s.tilesX || ty < 0 || ty >= s.tilesY {
		return nil
	}
	return s.tiles[ty*s.tilesX+tx]
}

// TileAtPixel returns the tile containing canvas pixel (px, py), or nil.
func (s *TileStore) TileAtPixel(px, py int) *Tile {
	if px < 0 || px >= s.width || py < 0 || py >= s.height {
		return nil
	}
	return s.tiles[(py/TileHeight)*s.tilesX+px/TileWidth]
}

// MarkDamaged marks dirty every tile whose bounds overlap r, even
// partially. It returns the number of tiles newly marked.
func (s *TileStore) MarkDamaged(r image.Rectangle) int {
	r = r.Intersect(s.Bounds())
	if r.Empty() {
		return 0
	}

	tx1 := r.Min.X / TileWidth
	ty1 := r.Min.Y / TileHeight
	tx2 := (r.Max.X - 1) / TileWidth
	ty2 := (r.Max.Y - 1) / TileHeight

	marked := 0
	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			t := s.tiles[ty*s.tilesX+tx]
			if !t.Dirty {
				t.Dirty = true
				marked++
			}
		}
	}
	return marked
}

// MarkAll marks every tile dirty.
func (s *TileStore) MarkAll() {
	for _, t := range s.tiles {
		t.Dirty = true
	}
}

// DirtyTiles returns the tiles to repaint this frame, in row-major order.
// The returned slice is newly allocated.
func (s *TileStore) DirtyTiles() []*Tile {
	var out []*Tile
	for _, t := range s.tiles {
		if t.Dirty {
			out = append(out, t)
		}
	}
	return out
}

// DirtyCount returns the number of dirty tiles.
func (s *TileStore) DirtyCount() int {
	n := 0
	for _, t := range s.tiles {
		if t.Dirty {
			n++
		}
	}
	return n
}

// CopyToBuffer flattens every tile, repainted or not, into dst as a
// row-major width x height image. It reports false if dst is too small.
func (s *TileStore) CopyToBuffer(dst []uint32) bool {
	if len(dst) < s.width*s.height {
		return false
	}
	for _, t := range s.tiles {
		x0 := t.X * TileWidth
		y0 := t.Y * TileHeight
		for row := range t.Height {
			src := t.Pix[row*TileWidth : row*TileWidth+t.Width]
			off := (y0+row)*s.width + x0
			copy(dst[off:off+t.Width], src)
		}
	}
	return true
}

// At returns the pixel at canvas coordinates (px, py), or 0 outside.
func (s *TileStore) At(px, py int) uint32 {
	if t := s.TileAtPixel(px, py); t != nil {
		return t.At(px, py)
	}
	return 0
}

// Close returns every tile to the pool. The store is empty afterwards
// and Close may be called more than once.
func (s *TileStore) Close() {
	for i, t := range s.tiles {
		s.pool.Put(t)
		s.tiles[i] = nil
	}
	s.tiles = nil
	s.tilesX, s.tilesY = 0, 0
	s.width, s.height = 0, 0
}
