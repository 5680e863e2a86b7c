// Package config loads the demo's TOML configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Window holds windowing and swap-chain settings.
type Window struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Title      string `toml:"title"`
	VSync      bool   `toml:"vsync"`
	Fullscreen bool   `toml:"fullscreen"`
}

// Shadow holds the shadow-channel allocator settings.
type Shadow struct {
	MaxMasks             int     `toml:"max_masks"`
	HalfResolution       bool    `toml:"half_resolution"`
	BilateralSensitivity float32 `toml:"bilateral_sensitivity"`
	FilterPasses         int     `toml:"filter_passes"`
}

// Post holds the post-process chain settings.
type Post struct {
	Exposure       float32 `toml:"exposure"`
	Bloom          bool    `toml:"bloom"`
	BloomThreshold float32 `toml:"bloom_threshold"`
	BlurPasses     int     `toml:"blur_passes"`
}

type Config struct {
	Window Window `toml:"window"`
	Shadow Shadow `toml:"shadow"`
	Post   Post   `toml:"post"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "screen-compositor demo",
			VSync:  true,
		},
		Shadow: Shadow{
			MaxMasks:             2,
			HalfResolution:       true,
			BilateralSensitivity: 8,
			FilterPasses:         1,
		},
		Post: Post{
			Exposure:       1.0,
			Bloom:          true,
			BloomThreshold: 1.0,
			BlurPasses:     2,
		},
	}
}

// Load reads a TOML file over the defaults, so partial files only override
// the keys they mention.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the renderer cannot work with.
func (c Config) Validate() error {
	if c.Window.Width < 1 || c.Window.Height < 1 {
		return fmt.Errorf("config: window size %dx%d invalid", c.Window.Width, c.Window.Height)
	}
	if c.Shadow.MaxMasks < 1 {
		return fmt.Errorf("config: shadow.max_masks must be at least 1, got %d", c.Shadow.MaxMasks)
	}
	if c.Shadow.BilateralSensitivity < 0 {
		return fmt.Errorf("config: shadow.bilateral_sensitivity must not be negative")
	}
	if c.Post.Exposure <= 0 {
		return fmt.Errorf("config: post.exposure must be positive, got %g", c.Post.Exposure)
	}
	return nil
}
