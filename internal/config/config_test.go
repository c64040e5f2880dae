package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, "fittrack.db", cfg.DatabaseFile)
	assert.Equal(t, "preferences.json", cfg.PreferencesFile)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FITTRACK_DATA_DIR", "/tmp/fittrack-test")
	t.Setenv("FITTRACK_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/fittrack-test", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"data_dir: "+dir+"\ndatabase_file: custom.db\nlog_level: warn\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "custom.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join(dir, "preferences.json"), cfg.PreferencesPath())
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("FITTRACK_LOG_LEVEL", "loud")

	_, err := Load("")
	assert.Error(t, err)
}
