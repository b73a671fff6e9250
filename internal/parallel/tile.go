// Package parallel provides the tiled pixel store behind the rasterizer.
//
// The framebuffer is divided into 64x64 pixel tiles. Each tile owns a
// fixed-size buffer of packed 0xAARRGGBB pixels that persists between
// frames until the tile is repainted. Key pieces:
//
//   - TileStore: the tile grid, damage marking, and flattening to one buffer
//   - DamageRegion: the accumulated dirty rectangle of a surface
//   - TilePool: reuse of tile buffers across resizes
//   - Repaint: bounded parallel repaint of dirty tiles
//
// Thread safety: TileStore and DamageRegion are NOT thread-safe. Repaint
// hands each tile to exactly one goroutine.
package parallel

import "image"

// Tile size constants.
const (
	// TileWidth is the width of a tile in pixels.
	TileWidth = 64

	// TileHeight is the height of a tile in pixels.
	TileHeight = 64

	// TilePixels is the number of pixels in a tile buffer.
	TilePixels = TileWidth * TileHeight
)

// Tile is one 64x64 partition of the framebuffer.
//
// The buffer is always TilePixels long with a stride of TileWidth. Edge
// tiles use only the top-left Width x Height pixels; the rest is unused.
type Tile struct {
	// X is the tile column index (0-based).
	X int

	// Y is the tile row index (0-based).
	Y int

	// Width is the number of valid columns (may be < TileWidth for edge tiles).
	Width int

	// Height is the number of valid rows (may be < TileHeight for edge tiles).
	Height int

	// Dirty reports whether the tile must be repainted this frame.
	Dirty bool

	// Pix holds packed 0xAARRGGBB pixels, row-major, stride TileWidth.
	Pix []uint32
}

// Bounds returns the pixel bounds of this tile in canvas space.
func (t *Tile) Bounds() image.Rectangle {
	x, y := t.X*TileWidth, t.Y*TileHeight
	return image.Rect(x, y, x+t.Width, y+t.Height)
}

// Fill sets every valid pixel of the tile to c.
func (t *Tile) Fill(c uint32) {
	for row := range t.Height {
		line := t.Pix[row*TileWidth : row*TileWidth+t.Width]
		for i := range line {
			line[i] = c
		}
	}
}

// Offset returns the index into Pix of canvas pixel (cx, cy), or -1 if
// the pixel is not within this tile.
func (t *Tile) Offset(cx, cy int) int {
	px := cx - t.X*TileWidth
	py := cy - t.Y*TileHeight
	if px < 0 || px >= t.Width || py < 0 || py >= t.Height {
		return -1
	}
	return py*TileWidth + px
}

// At returns the pixel at canvas coordinates (cx, cy), or 0 outside the tile.
func (t *Tile) At(cx, cy int) uint32 {
	if i := t.Offset(cx, cy); i >= 0 {
		return t.Pix[i]
	}
	return 0
}

// reset clears the pixels and dirty flag for reuse.
func (t *Tile) reset() {
	clear(t.Pix)
	t.Dirty = false
}
