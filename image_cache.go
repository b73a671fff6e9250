package canvas

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/canvas/internal/blend"
	"github.com/gogpu/canvas/internal/cache"
)

// DefaultImageCacheBytes is the default budget for pre-scaled images.
const DefaultImageCacheBytes = 32 << 20

// maxScaledPixels bounds the size of one pre-scaled copy. Larger
// targets sample the source directly.
const maxScaledPixels = 1 << 24

// scaledImage is an image region resampled to its device size.
type scaledImage struct {
	w, h int
	pix  []uint32
}

func (s *scaledImage) at(x, y int) (uint32, bool) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return 0, false
	}
	return s.pix[y*s.w+x], true
}

func (s *scaledImage) size() int64 {
	return int64(len(s.pix))*4 + 64
}

// imageCache holds pre-scaled images keyed by the drawing item's key.
type imageCache struct {
	scaled *cache.Bounded[CacheKey, *scaledImage]
}

func newImageCache(maxBytes int64) *imageCache {
	if maxBytes <= 0 {
		maxBytes = DefaultImageCacheBytes
	}
	return &imageCache{scaled: cache.NewBounded[CacheKey, *scaledImage](maxBytes)}
}

// prepare resolves the pre-scaled copy of every axis-aligned image item.
// It runs before tiles are painted so painting only reads.
func (ic *imageCache) prepare(items []DisplayItem) {
	for i := range items {
		it := &items[i]
		d := it.geom.image
		if it.geom.kind != shapeImage || d == nil || !d.aligned {
			continue
		}
		if d.target.Dx()*d.target.Dy() > maxScaledPixels {
			d.scaled = nil
			continue
		}
		if s, ok := ic.scaled.Get(it.Key); ok {
			d.scaled = s
			continue
		}
		s := scaleRegion(d.src, d.region, d.target.Dx(), d.target.Dy())
		if !ic.scaled.Insert(it.Key, s, s.size()) {
			Logger().Debug("canvas: scaled image exceeds cache budget",
				"bytes", s.size(), "budget", ic.scaled.MaxSize())
		}
		d.scaled = s
	}
}

// scaleRegion resamples region of im to w x h with approximate bilinear
// filtering.
func scaleRegion(im *Image, region image.Rectangle, w, h int) *scaledImage {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), im.pix, region, draw.Src, nil)

	s := &scaledImage{w: w, h: h, pix: make([]uint32, w*h)}
	for y := range h {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+4*w]
		for x := range w {
			p := row[4*x : 4*x+4 : 4*x+4]
			s.pix[y*w+x] = blend.Pack(p[0], p[1], p[2], p[3])
		}
	}
	return s
}

func (ic *imageCache) stats() cache.Stats {
	return ic.scaled.Stats()
}

func (ic *imageCache) clear() {
	ic.scaled.Clear()
}
