package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
	cfgFile string
}

// NewLoader creates a configuration loader. The config file is searched in
// rootDir unless cfgFile names one explicitly.
func NewLoader(rootDir, cfgFile string) Loader {
	return &loader{
		rootDir: rootDir,
		cfgFile: cfgFile,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (PYOUTLINE_*)
// 2. Config file (.pyoutline.yaml in the root directory)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.cfgFile != "" {
		v.SetConfigFile(l.cfgFile)
	} else {
		v.SetConfigName(".pyoutline")
		v.SetConfigType("yaml")
		v.AddConfigPath(l.rootDir)
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("PYOUTLINE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("report.output")
	v.BindEnv("paths.ignore_file")
	v.BindEnv("watch.debounce_ms")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults mirrors Default() into viper so partial config files merge
// over complete defaults.
func setDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("report.output", defaults.Report.Output)
	v.SetDefault("paths.ignore_file", defaults.Paths.IgnoreFile)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)
	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
}
