package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSec)
	assert.Equal(t, 5, cfg.Notify.IntervalSec)
	assert.Equal(t, 2500, cfg.Notify.ToastMs)
	assert.Equal(t, "light", cfg.Display.Theme)
	assert.Equal(t, ":memory:", cfg.DevServer.DB)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "api:\n  base_url: http://example.test/api/\nnotify:\n  interval_sec: 12\ndisplay:\n  theme: dark\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://example.test/api", cfg.API.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, 12, cfg.Notify.IntervalSec)
	assert.Equal(t, 2500, cfg.Notify.ToastMs, "unset keys keep defaults")
	assert.Equal(t, "dark", cfg.Display.Theme)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("TASKBOARD_API_BASE_URL", "http://env.test/api")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://env.test/api", cfg.API.BaseURL)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unterminated"), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestSaveConfig_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
	cfg := DefaultAppConfig()
	cfg.Display.Theme = "dark"
	cfg.Notify.IntervalSec = 9

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", loaded.Display.Theme)
	assert.Equal(t, 9, loaded.Notify.IntervalSec)
}
