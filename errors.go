package canvas

import "errors"

var (
	// ErrBackendNotAvailable is returned when a rendering backend other than
	// the CPU rasterizer is requested. The request is never substituted.
	ErrBackendNotAvailable = errors.New("canvas: backend not available")

	// ErrNotInitialized is returned by frame operations before Init or
	// after Cleanup.
	ErrNotInitialized = errors.New("canvas: rasterizer not initialized")

	// ErrFrameInProgress is returned by BeginFrame, Init and Resize while
	// a frame is being recorded.
	ErrFrameInProgress = errors.New("canvas: frame already in progress")

	// ErrNoFrame is returned by EndFrame without a matching BeginFrame.
	ErrNoFrame = errors.New("canvas: no frame in progress")

	// ErrInvalidSize is returned for non-positive or non-finite dimensions
	// or scale factors.
	ErrInvalidSize = errors.New("canvas: invalid surface size")

	// ErrBufferTooSmall is returned by Frame.CopyTo when the destination
	// cannot hold the frame.
	ErrBufferTooSmall = errors.New("canvas: destination buffer too small")

	// ErrUnsupportedFormat is returned by Frame.Bytes for pixel formats
	// other than 8-bit RGBA and BGRA.
	ErrUnsupportedFormat = errors.New("canvas: unsupported pixel format")
)

