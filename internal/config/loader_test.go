package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the loader:
// - Missing config file falls back to defaults
// - Config file values override defaults
// - Environment variables override the config file
// - Invalid values fail validation

func TestLoader_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader(t.TempDir(), "").Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoader_ConfigFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	content := `report:
  output: outline.txt
paths:
  ignore_file: .outlineignore
  ignore:
    - "*.generated.py"
watch:
  debounce_ms: 250
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ".pyoutline.yaml"), []byte(content), 0o644))

	cfg, err := NewLoader(root, "").Load()
	require.NoError(t, err)
	assert.Equal(t, "outline.txt", cfg.Report.Output)
	assert.Equal(t, ".outlineignore", cfg.Paths.IgnoreFile)
	assert.Equal(t, []string{"*.generated.py"}, cfg.Paths.Ignore)
	assert.Equal(t, 250, cfg.Watch.DebounceMs)
}

func TestLoader_PartialConfigFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".pyoutline.yaml"), []byte("report:\n  output: outline.txt\n"), 0o644))

	cfg, err := NewLoader(root, "").Load()
	require.NoError(t, err)
	assert.Equal(t, "outline.txt", cfg.Report.Output)
	assert.Equal(t, ".gitignore", cfg.Paths.IgnoreFile)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	// No t.Parallel: mutates process environment.
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".pyoutline.yaml"), []byte("report:\n  output: from-file.txt\n"), 0o644))

	t.Setenv("PYOUTLINE_REPORT_OUTPUT", "from-env.txt")

	cfg, err := NewLoader(root, "").Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env.txt", cfg.Report.Output)
}

func TestLoader_ExplicitConfigFile(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("watch:\n  debounce_ms: 100\n"), 0o644))

	cfg, err := NewLoader(t.TempDir(), cfgPath).Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Watch.DebounceMs)
}

func TestLoader_InvalidValues(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".pyoutline.yaml"), []byte("watch:\n  debounce_ms: -5\n"), 0o644))

	_, err := NewLoader(root, "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
