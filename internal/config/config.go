// Package config loads the YAML run configuration used by the CLI.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/CircleCut/internal/model"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds everything a headless run needs.
type Config struct {
	Pack     model.PackSettings `yaml:"pack"`
	Cut      model.CutSettings  `yaml:"cut"`
	Export   ExportConfig       `yaml:"export"`
	LogLevel string             `yaml:"log_level"`
}

// ExportConfig selects output files.
type ExportConfig struct {
	Dir           string   `yaml:"dir"`
	Name          string   `yaml:"name"`    // Base file name without extension
	Formats       []string `yaml:"formats"` // Any of SupportedFormats
	PNGSize       int      `yaml:"png_size"`
	SVGUnitsPerMM float64  `yaml:"svg_units_per_mm"`
	Labels        bool     `yaml:"labels"` // Print rectangle numbers in images
}

// SupportedFormats lists the export format keys in the order they are written.
var SupportedFormats = []string{"png", "svg", "dxf", "pdf", "labels", "csv", "xlsx", "gcode", "json"}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	for i, f := range c.Export.Formats {
		c.Export.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	if c.Export.Name == "" {
		c.Export.Name = "layout"
	}
}

// Validate checks the packing settings and export selection.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Pack.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, f := range c.Export.Formats {
		if !isSupported(f) {
			errs = append(errs, fmt.Errorf("unknown export format %q", f))
		}
	}
	if c.Export.PNGSize <= 0 {
		errs = append(errs, fmt.Errorf("export.png_size must be > 0, got %d", c.Export.PNGSize))
	}
	if !(c.Export.SVGUnitsPerMM > 0) {
		errs = append(errs, fmt.Errorf("export.svg_units_per_mm must be > 0, got %g", c.Export.SVGUnitsPerMM))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func isSupported(format string) bool {
	for _, s := range SupportedFormats {
		if s == format {
			return true
		}
	}
	return false
}

// WantsFormat reports whether format is selected for export.
func (c *Config) WantsFormat(format string) bool {
	for _, f := range c.Export.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// OutputPath returns dir/name.ext for the export directory.
func (c *Config) OutputPath(ext string) string {
	return filepath.Join(c.Export.Dir, c.Export.Name+"."+ext)
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return level, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
