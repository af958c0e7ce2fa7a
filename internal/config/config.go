// Package config reads the CLI settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting, see the env tags for the variable names.
type Config struct {
	// Dataset is a local dataset file. Empty downloads the GeoNames export.
	Dataset     string `env:"ZIPGEO_DATASET"`
	Format      string `env:"ZIPGEO_FORMAT"`
	GeoNamesURL string `env:"ZIPGEO_GEONAMES_URL" envDefault:"https://download.geonames.org/export/zip/US.zip"`
	CacheFile   string `env:"ZIPGEO_CACHE_FILE" envDefault:"US.zip"`
	SQLiteTable string `env:"ZIPGEO_SQLITE_TABLE" envDefault:"zip_codes"`

	// Workers for the neighborhoods command, 0 uses GOMAXPROCS.
	Workers int    `env:"ZIPGEO_WORKERS" envDefault:"0"`
	Output  string `env:"ZIPGEO_OUTPUT" envDefault:"NearbyZipCodes.json"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads envFile (when given and present) into the process environment
// and parses the configuration from it. Variables already set win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env.Parse can't.
func (c Config) Validate() error {
	switch strings.ToLower(c.Format) {
	case "", "geonames", "json", "sqlite":
	default:
		return fmt.Errorf("ZIPGEO_FORMAT: unknown format %q", c.Format)
	}
	if c.Workers < 0 {
		return fmt.Errorf("ZIPGEO_WORKERS: must not be negative, got %d", c.Workers)
	}
	return nil
}
