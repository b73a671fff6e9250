package canvas

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/canvas/text"
)

// Config is the file form of the rasterizer options.
//
//	backend           = "cpu"
//	workers           = 4
//	image_cache_bytes = 33554432
//	glyph_cache_bytes = 8388608
//	auto_damage       = true
//	background        = "#00000000"
type Config struct {
	Backend         string `toml:"backend"`
	Workers         int    `toml:"workers"`
	ImageCacheBytes int64  `toml:"image_cache_bytes"`
	GlyphCacheBytes int64  `toml:"glyph_cache_bytes"`
	AutoDamage      bool   `toml:"auto_damage"`
	Background      string `toml:"background"`
}

// DefaultConfig returns the configuration matching the default options.
func DefaultConfig() Config {
	return Config{
		Backend:         BackendCPU.String(),
		Workers:         runtime.GOMAXPROCS(0),
		ImageCacheBytes: DefaultImageCacheBytes,
		GlyphCacheBytes: text.DefaultAtlasBytes,
		AutoDamage:      true,
		Background:      "#00000000",
	}
}

// LoadConfig decodes TOML from r over DefaultConfig. Unknown keys and an
// unknown backend name are errors.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("canvas: config: %s", strict.String())
		}
		return Config{}, fmt.Errorf("canvas: config: %w", err)
	}
	if _, err := ParseBackendKind(cfg.Backend); err != nil {
		return Config{}, fmt.Errorf("canvas: config: %w", err)
	}
	return cfg, nil
}

// Encode writes c as TOML to w.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Options converts c to rasterizer options. An unknown backend name maps
// to a kind that NewRasterizer rejects with ErrBackendNotAvailable.
func (c Config) Options() []Option {
	kind, err := ParseBackendKind(c.Backend)
	if err != nil {
		kind = BackendKind(len(backendNames))
	}
	bg := Transparent
	if c.Background != "" {
		bg = Hex(c.Background)
	}
	return []Option{
		WithBackend(kind),
		WithWorkers(c.Workers),
		WithImageCacheBytes(c.ImageCacheBytes),
		WithGlyphCacheBytes(c.GlyphCacheBytes),
		WithAutoDamage(c.AutoDamage),
		WithBackground(bg),
	}
}
