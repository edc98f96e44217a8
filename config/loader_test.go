package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transit-analytics/gtfs-assess/validate"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
validation:
  farStops: true
  window: 4
  thresholds:
    3: 120
  defaultThresholdKMH: 250
feeds:
  - name: city
    path: /data/city.zip
`))
	require.NoError(t, err)

	assert.True(t, cfg.Validation.FarStops)
	assert.Equal(t, 4, cfg.Validation.Window)
	assert.Equal(t, 120.0, cfg.Validation.Thresholds[3])
	assert.Equal(t, 250.0, cfg.Validation.DefaultThresholdKMH)
	require.Len(t, cfg.Feeds, 1)
	assert.Equal(t, "city", cfg.Feeds[0].Name)
}

func TestLoadDefaultsWindow(t *testing.T) {
	cfg, err := Load(writeConfig(t, "validation:\n  farStops: true\n"))
	require.NoError(t, err)
	assert.Equal(t, validate.DefaultWindow, cfg.Validation.Window)
}

func TestLoadRejectsBadWindow(t *testing.T) {
	_, err := Load(writeConfig(t, "validation:\n  window: 1\n"))
	assert.Error(t, err)
}

func TestLoadRejectsBadLookupURL(t *testing.T) {
	_, err := Load(writeConfig(t, "validation:\n  lookupURL: not-a-url\n"))
	assert.Error(t, err)
}

func TestLoadRejectsFeedWithoutPath(t *testing.T) {
	_, err := Load(writeConfig(t, "feeds:\n  - name: city\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "validation: ["))
	assert.Error(t, err)
}
