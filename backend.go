package canvas

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// BackendKind names a rendering backend.
type BackendKind uint8

const (
	// BackendCPU is the tiled software rasterizer.
	BackendCPU BackendKind = iota
	// BackendGPU is GPU-accelerated rendering. It is not available.
	BackendGPU
)

// backendNames maps BackendKind values to their string representation.
var backendNames = [...]string{
	BackendCPU: "cpu",
	BackendGPU: "gpu",
}

// String returns the backend name.
func (k BackendKind) String() string {
	if int(k) < len(backendNames) {
		return backendNames[k]
	}
	return "unknown"
}

// ParseBackendKind looks up a backend by name ("cpu" or "gpu").
func ParseBackendKind(name string) (BackendKind, error) {
	for k, n := range backendNames {
		if n == name {
			return BackendKind(k), nil
		}
	}
	return 0, fmt.Errorf("canvas: unknown backend %q", name)
}

// DeviceHandle is an alias for gpucontext.DeviceProvider, the host
// application's GPU device and surface.
type DeviceHandle = gpucontext.DeviceProvider

// NullDevice is a DeviceHandle with no GPU. Its surface format is
// undefined, so frames keep their native BGRA layout.
type NullDevice struct{}

// Device returns nil for the null device.
func (NullDevice) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDevice) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDevice) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDevice) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// AdapterInfo reports an unknown adapter for the null device.
func (NullDevice) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "null", Type: gpucontext.AdapterTypeUnknown}
}

// Ensure NullDevice implements DeviceHandle.
var _ DeviceHandle = NullDevice{}

// Backend is the selected rendering backend. It is a closed set: the only
// variant that can be constructed is the CPU rasterizer.
type Backend struct {
	kind    BackendKind
	format  gputypes.TextureFormat
	adapter gpucontext.AdapterInfo
}

// softwareAdapter describes the rasterizer itself when no host device is
// given.
var softwareAdapter = gpucontext.AdapterInfo{Name: "canvas software rasterizer", Type: gpucontext.AdapterTypeSoftware}

// SelectBackend resolves kind against an optional host device.
//
// BackendCPU always succeeds. When dev reports an 8-bit RGBA or BGRA
// surface, that becomes the upload format of the backend, and the host
// adapter is recorded for AdapterInfo. Every other kind returns
// ErrBackendNotAvailable; no substitute is chosen.
func SelectBackend(kind BackendKind, dev DeviceHandle) (Backend, error) {
	if kind != BackendCPU {
		if dev != nil {
			info := dev.AdapterInfo()
			return Backend{}, fmt.Errorf("%w: %s on %s adapter %q", ErrBackendNotAvailable, kind, info.Type, info.Name)
		}
		return Backend{}, fmt.Errorf("%w: %s", ErrBackendNotAvailable, kind)
	}
	b := Backend{kind: BackendCPU, format: gputypes.TextureFormatBGRA8Unorm, adapter: softwareAdapter}
	if dev != nil {
		b.adapter = dev.AdapterInfo()
		switch f := dev.SurfaceFormat(); f {
		case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
			b.format = f
		}
	}
	return b, nil
}

// Kind returns the backend kind.
func (b Backend) Kind() BackendKind {
	return b.kind
}

// AdapterInfo returns the host adapter the frames are presented on, or
// the software rasterizer when no device was given.
func (b Backend) AdapterInfo() gpucontext.AdapterInfo {
	return b.adapter
}

// SurfaceFormat returns the texel layout frames should be converted to
// with Frame.Bytes before upload.
func (b Backend) SurfaceFormat() gputypes.TextureFormat {
	return b.format
}
