package canvas

import (
	"image"
	"sync/atomic"

	"golang.org/x/image/draw"

	"github.com/gogpu/canvas/internal/blend"
)

// imageIDs hands out process-wide image identities.
var imageIDs atomic.Uint64

// Image is an immutable pixel snapshot that can be drawn into a frame.
//
// The cache key of an image draw covers the image identity, not its
// pixels, so an Image must not change after creation. NewImage copies
// its source for that reason.
type Image struct {
	id  uint64
	pix *image.NRGBA
}

// NewImage snapshots src. The returned image's origin is (0, 0).
func NewImage(src image.Image) *Image {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return &Image{id: imageIDs.Add(1), pix: dst}
}

// ID returns the process-wide identity of the image.
func (im *Image) ID() uint64 { return im.id }

// Width returns the width in pixels.
func (im *Image) Width() int { return im.pix.Rect.Dx() }

// Height returns the height in pixels.
func (im *Image) Height() int { return im.pix.Rect.Dy() }

// Bounds returns the pixel bounds, always anchored at (0, 0).
func (im *Image) Bounds() image.Rectangle { return im.pix.Rect }

// NRGBA returns the underlying pixels. Callers must not modify them.
func (im *Image) NRGBA() *image.NRGBA { return im.pix }

// packedAt returns pixel (x, y) as 0xAARRGGBB, or 0 outside the image.
func (im *Image) packedAt(x, y int) uint32 {
	if !(image.Point{X: x, Y: y}).In(im.pix.Rect) {
		return 0
	}
	i := im.pix.PixOffset(x, y)
	s := im.pix.Pix[i : i+4 : i+4]
	return blend.Pack(s[0], s[1], s[2], s[3])
}
