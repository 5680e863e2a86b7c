package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadPartialOverride(t *testing.T) {
	path := writeFile(t, `
[window]
width = 1920
height = 1080

[shadow]
max_masks = 4
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, 1080, cfg.Window.Height)
	assert.Equal(t, 4, cfg.Shadow.MaxMasks)

	// Untouched sections keep defaults.
	def := Default()
	assert.Equal(t, def.Window.Title, cfg.Window.Title)
	assert.Equal(t, def.Post, cfg.Post)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	path := writeFile(t, `[window`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"zero masks", func(c *Config) { c.Shadow.MaxMasks = 0 }},
		{"negative sensitivity", func(c *Config) { c.Shadow.BilateralSensitivity = -1 }},
		{"zero exposure", func(c *Config) { c.Post.Exposure = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
