package loader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/thomhuang/zipgeo/dataset"
	"github.com/thomhuang/zipgeo/internal/logger"
)

var gzipMagic = []byte{0x1f, 0x8b}

// jsonRecord is one element of the JSON dataset. Spreadsheet exports often
// turn zip codes into numbers, so both forms are accepted.
type jsonRecord struct {
	ZipCode   zipCode `json:"zip_code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	County    string  `json:"county"`
}

type zipCode string

func (z *zipCode) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*z = zipCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("zip_code: %w", err)
	}
	*z = zipCode(n.String())
	return nil
}

// ReadJSON decodes a JSON array of records. Gzipped input is detected and
// decompressed.
func ReadJSON(r io.Reader) ([]dataset.Record, error) {
	br := bufio.NewReader(r)
	if magic, err := br.Peek(len(gzipMagic)); err == nil && bytes.Equal(magic, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer zr.Close()
		r = zr
	} else {
		r = br
	}

	var raw []jsonRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json dataset: %w", err)
	}

	records := make([]dataset.Record, 0, len(raw))
	for _, jr := range raw {
		records = append(records, dataset.Record{
			Code:      string(jr.ZipCode),
			Latitude:  jr.Latitude,
			Longitude: jr.Longitude,
			City:      jr.City,
			State:     jr.State,
			County:    jr.County,
		})
	}
	return records, nil
}

// JSONFile loads a JSON (or .json.gz) dataset from disk.
type JSONFile struct {
	Path   string
	Logger *slog.Logger
}

func (j JSONFile) Load(ctx context.Context) ([]dataset.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logger.OrDiscard(j.Logger)

	f, err := os.Open(j.Path)
	if err != nil {
		return nil, fmt.Errorf("open json dataset: %w", err)
	}
	defer f.Close()

	records, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", j.Path, err)
	}
	log.Info("loaded json dataset", "file", j.Path, "records", len(records))
	return Dedupe(records, log), nil
}
