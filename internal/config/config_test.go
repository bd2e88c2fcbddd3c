package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ImageDir)
	assert.NotEmpty(t, cfg.SidecarPath)
	assert.NotEmpty(t, cfg.GeocodeUserAgent)
	assert.Equal(t, time.Second, cfg.GeocodeInterval)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("IMAGE_DIR", "/photos")
	t.Setenv("GEOCODE_ENABLED", "false")
	t.Setenv("GEOCODE_INTERVAL", "1500ms")
	t.Setenv("WORKERS", "3")
	t.Setenv("CAPTION_BACKEND", "claude")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/photos", cfg.ImageDir)
	assert.False(t, cfg.GeocodeEnabled)
	assert.Equal(t, 1500*time.Millisecond, cfg.GeocodeInterval)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "claude", cfg.CaptionBackend)
}

func TestLoadYAMLFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photofolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("image_dir: /srv/img\nthumb_width: 400\nlog_format: text\n"), 0600))
	t.Setenv("PHOTOFOLIO_CONFIG", path)
	t.Setenv("THUMB_WIDTH", "320")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/img", cfg.ImageDir)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 320, cfg.ThumbWidth)
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("GEOCODE_INTERVAL", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("PHOTOFOLIO_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)
}
