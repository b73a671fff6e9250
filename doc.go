// Package canvas is a damage-tracked CPU software renderer for
// custom-drawn surfaces.
//
// # Overview
//
// Drawing calls are recorded into a per-frame display list. At the end of
// a frame the damaged region is resolved, the 64x64 tiles it touches are
// repainted from the display list in painter's order, and the whole tile
// grid is flattened into one Frame for the host to blit. Tiles outside
// the damage keep their pixels from earlier frames.
//
// # Quick Start
//
//	r, err := canvas.NewRasterizer()
//	if err != nil {
//		return err
//	}
//	defer r.Cleanup()
//	if err := r.Init(320, 240, 1); err != nil {
//		return err
//	}
//
//	dc, _ := r.BeginFrame()
//	dc.Clear(canvas.RGB(0, 128, 255))
//	dc.DrawRectInteractive("button", canvas.R(8, 8, 96, 32), canvas.Fill(canvas.Yellow))
//	dc.DrawText("Hello", 16, 30, canvas.Black)
//	frame, err := r.EndFrame(ctx)
//	if err != nil {
//		return err
//	}
//	blit(frame.Pix, frame.Width, frame.Height)
//	frame.Release()
//
// # Architecture
//
// The library is organized into:
//   - Public API: Rasterizer, Context, DisplayList, Frame, InteractionRegistry
//   - Internal: raster (tessellation, scanline fill, coverage), blend
//     (twelve blend modes), cache (byte-budget LRU), parallel (tiles, damage)
//   - Collaborators: text (fonts and glyph atlas), frame (redraw
//     scheduling), surface (one surface under a fixed lock order)
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians
//
// User space is device pixels divided by the surface scale factor, then
// mapped by the current transform.
//
// # Rendering Model
//
// Pixels are non-premultiplied 0xAARRGGBB values. Paths fill with the
// odd-even rule and one-dimensional anti-aliasing; rectangles get exact
// area coverage and circles a one-pixel ramp. Strokes are bands without
// joins or caps. Curves flatten to 4 (quadratic) and 8 (cubic) segments.
package canvas
