package core

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumen.toml")
	require.NoError(t, os.WriteFile(path, []byte("scene = \"triangle\"\nwidth = 800\nlog_level = \"debug\"\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "triangle", cfg.Scene)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
	assert.Equal(t, slog.LevelDebug, ParseLevel(cfg.LogLevel))
}

func TestLoadConfigRejectsUnknownKeysAndBadSize(t *testing.T) {
	dir := t.TempDir()
	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("msaa = 4\n"), 0o644))
	_, err := LoadConfig(unknown)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("width = 0\n"), 0o644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}
