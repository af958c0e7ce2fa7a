package loader

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/thomhuang/zipgeo/dataset"
	"github.com/thomhuang/zipgeo/internal/logger"
)

// DefaultGeoNamesURL is the GeoNames US postal code export.
const DefaultGeoNamesURL = "https://download.geonames.org/export/zip/US.zip"

// GeoNames column layout, see the readme.txt shipped in the archive.
const (
	geoNamesFields    = 12
	geoNamesCode      = 1
	geoNamesPlace     = 2
	geoNamesAdminCode = 4
	geoNamesCounty    = 5
	geoNamesLatitude  = 9
	geoNamesLongitude = 10
)

// GeoNames loads a GeoNames postal code archive. The archive is read from
// CacheFile when it exists, otherwise it is downloaded from URL and saved to
// CacheFile for next time.
type GeoNames struct {
	URL       string
	CacheFile string
	Client    *http.Client
	Logger    *slog.Logger
}

func (g GeoNames) Load(ctx context.Context) ([]dataset.Record, error) {
	log := logger.OrDiscard(g.Logger)

	archive, err := g.archive(ctx, log)
	if err != nil {
		return nil, err
	}

	zipReader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("unzip geonames archive: %w", err)
	}

	// the archive ships the table next to a readme.txt, skip that one
	for _, f := range zipReader.File {
		name := strings.ToLower(path.Base(f.Name))
		if !strings.HasSuffix(name, ".txt") || name == "readme.txt" {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in geonames archive: %w", f.Name, err)
		}
		defer rc.Close()

		records, err := ReadGeoNames(rc, log)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		log.Info("loaded geonames dataset", "file", f.Name, "records", len(records))
		return Dedupe(records, log), nil
	}

	return nil, errors.New("geonames archive has no postal code table")
}

func (g GeoNames) archive(ctx context.Context, log *slog.Logger) ([]byte, error) {
	// Try to use cached file first
	if g.CacheFile != "" {
		body, err := os.ReadFile(g.CacheFile)
		if err == nil {
			log.Debug("using cached geonames archive", "file", g.CacheFile)
			return body, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read geonames cache: %w", err)
		}
	}

	url := g.URL
	if url == "" {
		url = DefaultGeoNamesURL
	}
	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build geonames request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download geonames archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download geonames archive: GET %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read geonames response body: %w", err)
	}
	log.Info("downloaded geonames archive", "url", url, "bytes", len(body))

	if g.CacheFile != "" {
		if err := os.WriteFile(g.CacheFile, body, 0o644); err != nil {
			log.Warn("could not save geonames cache file", "file", g.CacheFile, "err", err)
		}
	}
	return body, nil
}

// GeoNamesFile loads an already extracted GeoNames table.
type GeoNamesFile struct {
	Path   string
	Logger *slog.Logger
}

func (g GeoNamesFile) Load(ctx context.Context) ([]dataset.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logger.OrDiscard(g.Logger)

	f, err := os.Open(g.Path)
	if err != nil {
		return nil, fmt.Errorf("open geonames file: %w", err)
	}
	defer f.Close()

	records, err := ReadGeoNames(f, log)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", g.Path, err)
	}
	return Dedupe(records, log), nil
}

// ReadGeoNames parses a GeoNames postal code table. Rows that don't parse are
// logged and skipped; only read failures of r are returned.
func ReadGeoNames(r io.Reader, log *slog.Logger) ([]dataset.Record, error) {
	log = logger.OrDiscard(log)
	var records []dataset.Record

	// read tsv content from file reader
	csvReader := csv.NewReader(r)
	csvReader.Comma = '\t'
	csvReader.FieldsPerRecord = geoNamesFields
	// place names carry stray quotes
	csvReader.LazyQuotes = true

	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, err
			}
			log.Warn("could not read geonames record", "err", err)
			continue
		}

		code := row[geoNamesCode]
		latitude, err := strconv.ParseFloat(row[geoNamesLatitude], 64)
		if err != nil {
			log.Warn("could not parse latitude", "zip", code, "err", err)
			continue
		}
		longitude, err := strconv.ParseFloat(row[geoNamesLongitude], 64)
		if err != nil {
			log.Warn("could not parse longitude", "zip", code, "err", err)
			continue
		}

		records = append(records, dataset.Record{
			Code:      code,
			Latitude:  latitude,
			Longitude: longitude,
			City:      row[geoNamesPlace],
			State:     row[geoNamesAdminCode],
			County:    row[geoNamesCounty],
		})
	}

	return records, nil
}
