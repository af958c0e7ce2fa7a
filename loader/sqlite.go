package loader

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/thomhuang/zipgeo/dataset"
	"github.com/thomhuang/zipgeo/internal/logger"
)

// DefaultSQLiteTable is the table SQLite reads when none is configured.
const DefaultSQLiteTable = "zip_codes"

// SQLite loads records from a table with the columns
// zip_code, latitude, longitude, city, state and county. Rows come back in
// rowid order.
type SQLite struct {
	Path   string
	Table  string
	Logger *slog.Logger
}

func (s SQLite) Load(ctx context.Context) ([]dataset.Record, error) {
	if strings.TrimSpace(s.Path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	log := logger.OrDiscard(s.Logger)
	table := s.Table
	if table == "" {
		table = DefaultSQLiteTable
	}

	db, err := sql.Open("sqlite", filepath.Clean(s.Path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT zip_code, latitude, longitude, city, state, county FROM %s ORDER BY rowid",
		quoteIdent(table),
	)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var records []dataset.Record
	for rows.Next() {
		var (
			r                   dataset.Record
			city, state, county sql.NullString
		)
		if err := rows.Scan(&r.Code, &r.Latitude, &r.Longitude, &city, &state, &county); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		r.City, r.State, r.County = city.String, state.String, county.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}

	log.Info("loaded sqlite dataset", "file", s.Path, "table", table, "records", len(records))
	return Dedupe(records, log), nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
