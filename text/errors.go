package text

import "errors"

// Sentinel errors for text package.
var (
	// ErrGlyphNotFound is returned when a font has no glyph for a rune.
	ErrGlyphNotFound = errors.New("text: glyph not found")

	// ErrUnknownFamily is returned when no font is registered for a family.
	ErrUnknownFamily = errors.New("text: unknown font family")

	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")
)
