// Package text provides glyph rasterization and caching for canvas.
//
// The pipeline is deliberately simple: no shaping, no complex layout.
// Glyphs are placed by linear advance.
//
//   - Font: family name and pixel size; its ID is a stable hash of the family
//   - Rasterizer: the font collaborator, turning a rune into an alpha mask
//   - SFNTRasterizer: a Rasterizer over golang.org/x/image/font/sfnt
//   - Atlas: a byte-budget LRU cache of rasterized glyphs
//
// # Example usage
//
//	r := text.NewDefaultRasterizer()
//	atlas := text.NewAtlas(r, 8<<20)
//
//	g, err := atlas.Glyph(text.Font{Family: "Go", Size: 16}, 'A')
//	if err != nil {
//	    return err
//	}
//	// g.Mask holds g.Width x g.Height coverage bytes.
//
// Bitmaps stored in the atlas are shared read-only between callers.
package text
