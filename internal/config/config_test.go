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
	assert.Equal(t, "https://download.geonames.org/export/zip/US.zip", cfg.GeoNamesURL)
	assert.Equal(t, "US.zip", cfg.CacheFile)
	assert.Equal(t, "zip_codes", cfg.SQLiteTable)
	assert.Equal(t, "NearbyZipCodes.json", cfg.Output)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("ZIPGEO_DATASET", "zips.json")
	t.Setenv("ZIPGEO_WORKERS", "8")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "zips.json", cfg.Dataset)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ZIPGEO_FORMAT=sqlite\nZIPGEO_SQLITE_TABLE=zips\n"), 0o644))
	// godotenv writes straight into the process environment
	t.Setenv("ZIPGEO_FORMAT", "")
	t.Setenv("ZIPGEO_SQLITE_TABLE", "")
	os.Unsetenv("ZIPGEO_FORMAT")
	os.Unsetenv("ZIPGEO_SQLITE_TABLE")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Format)
	assert.Equal(t, "zips", cfg.SQLiteTable)
}

func TestLoadInvalid(t *testing.T) {
	t.Run("Workers", func(t *testing.T) {
		t.Setenv("ZIPGEO_WORKERS", "lots")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("NegativeWorkers", func(t *testing.T) {
		t.Setenv("ZIPGEO_WORKERS", "-2")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("Format", func(t *testing.T) {
		t.Setenv("ZIPGEO_FORMAT", "xml")
		_, err := Load("")
		assert.ErrorContains(t, err, "unknown format")
	})
}
