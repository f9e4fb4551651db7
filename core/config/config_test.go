package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 120, cfg.Engine.ScanIntervalSeconds)
	assert.Equal(t, 30, cfg.Engine.ErrorRetrySeconds)
	assert.Equal(t, 1200, cfg.Engine.GraceSeconds)
	assert.Equal(t, 1.15, cfg.Engine.MaxRateFactor)
	assert.Equal(t, 0.5, cfg.Engine.MinRateFactor)
	assert.Equal(t, 3.0, cfg.Engine.DefaultRateMbps)
	assert.Equal(t, 2000.0, cfg.Engine.DefaultNodeMbps)
	assert.Equal(t, 8, cfg.Engine.IDLength)
	assert.False(t, cfg.Engine.ManualParents)
	assert.Equal(t, "ShapedDevices.csv", cfg.Paths.TablePath)
	assert.Equal(t, "network.json", cfg.Paths.HierarchyPath)
	assert.Equal(t, "routers.json", cfg.Paths.RoutersPath)
	assert.Equal(t, "/opt/libreqos/src/LibreQoS.py --updateonly", cfg.Shaper.Command)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Mirror.Enabled)
	assert.False(t, cfg.Status.Enabled)
	assert.Equal(t, "8423", cfg.Status.Port)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ENGINE_GRACE_SECONDS", "600")
	t.Setenv("ENGINE_MANUAL_PARENTS", "true")
	t.Setenv("PATHS_TABLE", "/var/lib/shaper/ShapedDevices.csv")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 600, cfg.Engine.GraceSeconds)
	assert.True(t, cfg.Engine.ManualParents)
	assert.Equal(t, "/var/lib/shaper/ShapedDevices.csv", cfg.Paths.TablePath)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("ENGINE_SCAN_INTERVAL_SECONDS=60\n"), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Engine.ScanIntervalSeconds)

	// godotenv leaks into the process environment; clean up for other tests.
	t.Cleanup(func() { os.Unsetenv("ENGINE_SCAN_INTERVAL_SECONDS") })
}
