// Package config handles loading the tool configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked for in the working directory when no file is
// given.
const DefaultFile = "tilescreen.yaml"

// Bounds strategies.
const (
	BoundsAuto   = "auto"
	BoundsScan   = "scan"
	BoundsChunks = "chunks"
)

// Config holds all settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Export  ExportConfig  `yaml:"export"`
	Preview PreviewConfig `yaml:"preview"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ExportConfig holds export settings.
type ExportConfig struct {
	Bounds   string `yaml:"bounds"`    // auto, scan or chunks
	Workers  int    `yaml:"workers"`   // Parallel screen file writers
	LocalIDs bool   `yaml:"local_ids"` // Write tileset local ids instead of GIDs
}

// PreviewConfig holds preview image settings.
type PreviewConfig struct {
	CellSize int  `yaml:"cell_size"`
	Colors   int  `yaml:"colors"`
	Border   bool `yaml:"border"`
}

// CatalogConfig holds the screen catalog settings.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "warn",
		},
		Export: ExportConfig{
			Bounds:  BoundsAuto,
			Workers: 4,
		},
		Preview: PreviewConfig{
			CellSize: 4,
			Colors:   16,
			Border:   true,
		},
	}
}

// Load returns the defaults overlaid with path, or with DefaultFile if path
// is empty and that file exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return cfg, cfg.Validate()
		}
		path = DefaultFile
	}

	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the settings that have a fixed set of values.
func (c *Config) Validate() error {
	switch c.Export.Bounds {
	case BoundsAuto, BoundsScan, BoundsChunks:
	default:
		return fmt.Errorf("config: unknown bounds strategy %q", c.Export.Bounds)
	}
	if c.Export.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Export.Workers)
	}
	return nil
}
