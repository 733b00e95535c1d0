package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "media.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	require.Equal(t, 100, cfg.Image.JPEGQuality)
	require.Equal(t, 0, cfg.Image.PNGCompression)
	require.Equal(t, "local", cfg.CDN.Provider)
	require.Equal(t, "jpeg", cfg.CDN.Format)
	require.Equal(t, "cdn", cfg.CDN.BasePath)
	require.Equal(t, "/media", cfg.CDN.BaseURL)
	require.Equal(t, 4, cfg.Queue.Workers)
	require.Equal(t, 100, cfg.Queue.QueueSize)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
image:
  jpeg-quality: 85
cdn:
  provider: local
  base-path: /tmp/cdn-store
  format: png
queue:
  workers: 2
`)

	cfg, err := New(Options{Path: path}).Load()
	require.NoError(t, err)

	require.Equal(t, 85, cfg.Image.JPEGQuality)
	require.Equal(t, "png", cfg.CDN.Format)
	require.Equal(t, "/tmp/cdn-store", cfg.CDN.BasePath)
	require.Equal(t, 2, cfg.Queue.Workers)

	// untouched keys keep their defaults
	require.Equal(t, 0, cfg.Image.PNGCompression)
	require.Equal(t, 100, cfg.Queue.QueueSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := New(Options{Path: filepath.Join(t.TempDir(), "nope.yaml")}).Load()
	require.Error(t, err)
}

func TestValidationRejectsOutOfRangeValues(t *testing.T) {
	path := writeConfig(t, `
image:
  jpeg-quality: 101
`)
	_, err := New(Options{Path: path}).Load()
	require.Error(t, err)
}

func TestValidationRejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, `
cdn:
  provider: ftp
`)
	_, err := New(Options{Path: path}).Load()
	require.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, `
image:
  jpeg-quality: 85
`)
	t.Setenv("EUREKA_MEDIA_IMAGE_JPEG_QUALITY", "70")

	opts := Options{Path: path, EnvPrefix: "EUREKA_MEDIA"}
	cfg, err := New(opts).Load()
	require.NoError(t, err)
	require.Equal(t, 70, cfg.Image.JPEGQuality)
}

func TestValidateStandalone(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	cfg.Queue.Workers = 0
	require.Error(t, Validate(cfg))
}
