package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.MemoryLimitMB = 5
	cfg.FontSourcePriority = PriorityAllWebFirst
	cfg.ProjectAssetDirs = []string{"/tmp/fonts"}

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, SaveTo(cfg, path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, cfg.MemoryLimitMB, loaded.MemoryLimitMB)
	require.Equal(t, cfg.FontSourcePriority, loaded.FontSourcePriority)
	require.Equal(t, cfg.ProjectAssetDirs, loaded.ProjectAssetDirs)
}

func TestLoadFromMissingFileReturnsDefault(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestValidateRejectsLowLimits(t *testing.T) {
	cfg := Default()
	cfg.MemoryLimitMB = 0
	require.Error(t, Validate(cfg))

	cfg = Default()
	cfg.DiskLimitMB = 1
	require.Error(t, Validate(cfg))
}

func TestSetAppliesTypedFields(t *testing.T) {
	cfg := Default()
	require.NoError(t, Set(&cfg, "memory_limit_mb", "8"))
	require.Equal(t, 8, cfg.MemoryLimitMB)

	require.NoError(t, Set(&cfg, "web_fonts_enabled", "false"))
	require.False(t, cfg.WebFontsEnabled)

	require.Error(t, Set(&cfg, "memory_limit_mb", "not-a-number"))
	require.Error(t, Set(&cfg, "unknown_key", "value"))
}
