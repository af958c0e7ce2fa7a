// Package loader reads zip code datasets into records for dataset.New.
//
// Supported sources are the GeoNames postal code export (zip archive,
// downloaded and cached, or a plain tab separated file), a JSON array of
// records (optionally gzipped) and a SQLite table.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/thomhuang/zipgeo/dataset"
	"github.com/thomhuang/zipgeo/internal/logger"
)

// Format names a dataset encoding.
const (
	FormatGeoNames = "geonames"
	FormatJSON     = "json"
	FormatSQLite   = "sqlite"
)

// Loader produces the ordered records of a dataset.
type Loader interface {
	Load(ctx context.Context) ([]dataset.Record, error)
}

// Source describes where a dataset comes from.
type Source struct {
	// Format is one of the Format constants; empty means guess from Path.
	Format string
	// Path is a local dataset file. For GeoNames it may be empty, the archive
	// is then downloaded from URL and kept in CacheFile.
	Path      string
	URL       string
	CacheFile string
	// Table is the SQLite table name.
	Table  string
	Logger *slog.Logger
}

// Loader returns the loader for s.
func (s Source) Loader() (Loader, error) {
	format := strings.ToLower(strings.TrimSpace(s.Format))
	if format == "" {
		format = guessFormat(s.Path)
	}

	switch format {
	case FormatGeoNames:
		ext := strings.ToLower(filepath.Ext(s.Path))
		if ext == ".txt" || ext == ".tsv" {
			return GeoNamesFile{Path: s.Path, Logger: s.Logger}, nil
		}
		g := GeoNames{URL: s.URL, CacheFile: s.CacheFile, Logger: s.Logger}
		if s.Path != "" {
			// a local archive is just a cache that's always warm
			g.CacheFile = s.Path
		}
		return g, nil
	case FormatJSON:
		if s.Path == "" {
			return nil, fmt.Errorf("json dataset needs a path")
		}
		return JSONFile{Path: s.Path, Logger: s.Logger}, nil
	case FormatSQLite:
		if s.Path == "" {
			return nil, fmt.Errorf("sqlite dataset needs a path")
		}
		return SQLite{Path: s.Path, Table: s.Table, Logger: s.Logger}, nil
	}
	return nil, fmt.Errorf("unknown dataset format %q", s.Format)
}

func guessFormat(path string) string {
	name := strings.ToLower(path)
	switch {
	case name == "":
		return FormatGeoNames
	case strings.HasSuffix(name, ".json"), strings.HasSuffix(name, ".json.gz"):
		return FormatJSON
	case strings.HasSuffix(name, ".db"), strings.HasSuffix(name, ".sqlite"), strings.HasSuffix(name, ".sqlite3"):
		return FormatSQLite
	}
	return FormatGeoNames
}

// Dedupe keeps the first record of every code, which is the one a first-match
// lookup over the raw data would return. Dropped duplicates are logged.
func Dedupe(records []dataset.Record, log *slog.Logger) []dataset.Record {
	log = logger.OrDiscard(log)
	seen := make(map[string]struct{}, len(records))
	out := make([]dataset.Record, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r.Code]; dup {
			log.Warn("skipping duplicate zip code", "zip", r.Code)
			continue
		}
		seen[r.Code] = struct{}{}
		out = append(out, r)
	}
	return out
}
