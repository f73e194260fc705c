// Package config holds the pyoutline configuration: defaults, optional
// config file, and environment overrides.
package config

import (
	"fmt"

	"github.com/mvp-joe/pyoutline/internal/ignore"
)

// Config represents the complete pyoutline configuration.
// It can be loaded from .pyoutline.yaml with environment variable overrides.
type Config struct {
	Report ReportConfig `yaml:"report" mapstructure:"report"`
	Paths  PathsConfig  `yaml:"paths" mapstructure:"paths"`
	Watch  WatchConfig  `yaml:"watch" mapstructure:"watch"`
}

// ReportConfig configures where the assembled report is written.
type ReportConfig struct {
	Output string `yaml:"output" mapstructure:"output"` // report file path, relative to the working directory
}

// PathsConfig defines which filesystem entries are excluded from a run.
type PathsConfig struct {
	IgnoreFile string   `yaml:"ignore_file" mapstructure:"ignore_file"` // ignore file name looked up in the traversal root
	Ignore     []string `yaml:"ignore" mapstructure:"ignore"`           // extra glob patterns, merged with the ignore file's
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"` // settle time before regeneration
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Report: ReportConfig{
			Output: "report.txt",
		},
		Paths: PathsConfig{
			IgnoreFile: ignore.DefaultIgnoreFileName,
			Ignore:     []string{},
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Report.Output == "" {
		return fmt.Errorf("report.output must not be empty")
	}
	if c.Paths.IgnoreFile == "" {
		return fmt.Errorf("paths.ignore_file must not be empty")
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", c.Watch.DebounceMs)
	}
	return nil
}
