// Package config holds the shared settings for the command-line tools,
// resolved from a YAML file, RIGTOOLS_* environment variables and CLI
// flags, in that order.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds plot and engine settings.
type Config struct {
	// Plot settings
	PlotSize    int `yaml:"plot_size" env:"RIGTOOLS_PLOT_SIZE"`
	Supersample int `yaml:"supersample" env:"RIGTOOLS_SUPERSAMPLE"`
	WebPQuality int `yaml:"webp_quality" env:"RIGTOOLS_WEBP_QUALITY"`
	Workers     int `yaml:"workers" env:"RIGTOOLS_WORKERS"`

	// Engine settings
	MaxOffsetFrames float64 `yaml:"max_offset_frames" env:"RIGTOOLS_MAX_OFFSET_FRAMES"`
	PairTolerance   float64 `yaml:"pair_tolerance" env:"RIGTOOLS_PAIR_TOLERANCE"`
	MirrorAxis      string  `yaml:"mirror_axis" env:"RIGTOOLS_MIRROR_AXIS"`
}

// Flags holds CLI flag values that override config file and env settings.
type Flags struct {
	PlotSize int
	Quality  int
	Workers  int
}

// Load reads a YAML config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies environment variables over the file values and CLI
// flags over both, then fills any remaining fields with defaults.
func (c *Config) Resolve(flags Flags) error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}

	// CLI flags override config file and env
	if flags.PlotSize > 0 {
		c.PlotSize = flags.PlotSize
	}
	if flags.Quality > 0 {
		c.WebPQuality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	// Defaults
	if c.PlotSize <= 0 {
		c.PlotSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.WebPQuality <= 0 {
		c.WebPQuality = 90
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.MaxOffsetFrames <= 0 {
		c.MaxOffsetFrames = 20
	}
	if c.PairTolerance <= 0 {
		c.PairTolerance = 0.5
	}
	if c.MirrorAxis == "" {
		c.MirrorAxis = "x"
	}
	return nil
}

// MirrorAxisIndex maps the configured mirror axis name to 0, 1 or 2.
func (c *Config) MirrorAxisIndex() (int, error) {
	switch strings.ToLower(c.MirrorAxis) {
	case "x":
		return 0, nil
	case "y":
		return 1, nil
	case "z":
		return 2, nil
	}
	return 0, fmt.Errorf("config: unknown mirror axis %q", c.MirrorAxis)
}
