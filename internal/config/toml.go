// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Chart  ChartConfig `toml:"chart"`
	Glyphs GlyphConfig `toml:"glyphs"`
}

// ChartConfig maps chart size settings.
type ChartConfig struct {
	Width  *int `toml:"width"`
	Height *int `toml:"height"`
	Bands  *int `toml:"bands"`
}

// GlyphConfig maps the glyphs used for ticks, the axis line and markers.
type GlyphConfig struct {
	Tick   *string `toml:"tick"`
	Axis   *string `toml:"axis"`
	Marker *string `toml:"marker"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
