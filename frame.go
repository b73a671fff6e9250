package canvas

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/canvas/internal/blend"
)

// Frame is one published image of a surface.
//
// Pix holds Width*Height packed 0xAARRGGBB pixels, row-major and
// non-premultiplied. In little-endian memory these are B, G, R, A bytes,
// hence Format is BGRA8Unorm.
//
// The consumer owns a Frame until it calls Release, after which the
// buffer may be reused by a later frame.
type Frame struct {
	Width, Height int
	Format        gputypes.TextureFormat
	Pix           []uint32

	// Damage is the pixel rectangle repainted for this frame.
	Damage image.Rectangle

	// DirtyTiles is the number of tiles repainted for this frame.
	DirtyTiles int

	pool     *FramePool
	buf      *[]uint32 // pooled backing array of Pix
	released atomic.Bool
}

// At returns the pixel at (x, y), or Transparent outside the frame.
func (f *Frame) At(x, y int) Color {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return Transparent
	}
	return FromPacked(f.Pix[y*f.Width+x])
}

// CopyTo writes the pixels into dst, which must hold Width*Height values.
func (f *Frame) CopyTo(dst []uint32) error {
	n := f.Width * f.Height
	if len(dst) < n {
		return fmt.Errorf("%w: have %d pixels, need %d", ErrBufferTooSmall, len(dst), n)
	}
	copy(dst, f.Pix[:n])
	return nil
}

// Image returns a copy of the frame as an *image.NRGBA.
func (f *Frame) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, p := range f.Pix[:f.Width*f.Height] {
		r, g, b, a := blend.Unpack(p)
		o := 4 * i
		img.Pix[o] = r
		img.Pix[o+1] = g
		img.Pix[o+2] = b
		img.Pix[o+3] = a
	}
	return img
}

// Bytes returns the pixels as 4-byte texels in format, ready for upload
// to a surface of that format.
func (f *Frame) Bytes(format gputypes.TextureFormat) ([]byte, error) {
	n := f.Width * f.Height
	out := make([]byte, 4*n)
	switch format {
	case gputypes.TextureFormatBGRA8Unorm:
		for i, p := range f.Pix[:n] {
			r, g, b, a := blend.Unpack(p)
			out[4*i], out[4*i+1], out[4*i+2], out[4*i+3] = b, g, r, a
		}
	case gputypes.TextureFormatRGBA8Unorm:
		for i, p := range f.Pix[:n] {
			r, g, b, a := blend.Unpack(p)
			out[4*i], out[4*i+1], out[4*i+2], out[4*i+3] = r, g, b, a
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	return out, nil
}

// Release hands the frame's buffer back to its pool. The frame must not
// be used afterwards. Releasing twice is a no-op, also after the buffer
// has been handed out again as another Frame.
func (f *Frame) Release() {
	if !f.released.CompareAndSwap(false, true) {
		return
	}
	if f.pool != nil {
		f.pool.put(f)
	}
}

// FramePool recycles frame buffers between a rasterizer and the consumer
// that blits its output. It is safe for concurrent use.
//
// Only pixel buffers are pooled; every Get returns a new *Frame, so a
// stale Frame can never release a buffer owned by a later one.
type FramePool struct {
	bufs        sync.Pool
	outstanding atomic.Int64
}

// NewFramePool creates an empty pool.
func NewFramePool() *FramePool {
	return &FramePool{}
}

// Get returns a frame of the given size whose pixels are unspecified.
func (p *FramePool) Get(width, height int) *Frame {
	n := max(width, 0) * max(height, 0)
	buf, _ := p.bufs.Get().(*[]uint32)
	if buf == nil || cap(*buf) < n {
		pix := make([]uint32, n)
		buf = &pix
	}
	p.outstanding.Add(1)
	return &Frame{
		Width:  width,
		Height: height,
		Format: gputypes.TextureFormatBGRA8Unorm,
		Pix:    (*buf)[:n],
		pool:   p,
		buf:    buf,
	}
}

// Outstanding returns the number of frames handed out and not released.
func (p *FramePool) Outstanding() int64 {
	return p.outstanding.Load()
}

func (p *FramePool) put(f *Frame) {
	p.outstanding.Add(-1)
	p.bufs.Put(f.buf)
}
