// Command zipgeo answers zip code distance and proximity queries from the
// command line.
//
//	zipgeo [-env file] <command> [args]
//
// The dataset and logging are configured through ZIPGEO_* and LOG_*
// environment variables, optionally read from a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/thomhuang/zipgeo/dataset"
	"github.com/thomhuang/zipgeo/geo"
	"github.com/thomhuang/zipgeo/internal/config"
	"github.com/thomhuang/zipgeo/internal/logger"
	"github.com/thomhuang/zipgeo/loader"
	"github.com/thomhuang/zipgeo/query"
)

const usage = `usage: zipgeo [-env file] <command> [args]

commands:
  distance A B [unit]     distance between two zip codes
  closest A               nearest other zip code
  radius A R [unit]       zip codes within R of A
  bbox A KM               zip codes within KM kilometers of A
  inrange A B R [unit]    whether A and B are at most R apart
  city A                  city and state
  summary A               everything known about A
  valid A                 whether A exists
  midpoint A B            average of the two coordinates
  sort BASE A [B...]      zip codes ordered by distance from BASE
  group-state             zip codes grouped by state
  group-county            zip codes grouped by county
  neighborhoods R [unit]  zip codes within R of every zip code, written to ZIPGEO_OUTPUT

unit is km (default) or miles.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "zipgeo:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("zipgeo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	envFile := fs.String("env", ".env", "dotenv file to read before parsing the environment")
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	log := logger.New(stderr, cfg.LogLevel, cfg.LogFormat)

	engine, err := loadEngine(ctx, cfg, log)
	if err != nil {
		return err
	}

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	result, err := execute(ctx, engine, cfg, log, cmd, cmdArgs)
	if err != nil {
		return err
	}
	return writeJSON(stdout, result)
}

func loadEngine(ctx context.Context, cfg config.Config, log *slog.Logger) (*query.Engine, error) {
	start := time.Now()
	src := loader.Source{
		Format:    cfg.Format,
		Path:      cfg.Dataset,
		URL:       cfg.GeoNamesURL,
		CacheFile: cfg.CacheFile,
		Table:     cfg.SQLiteTable,
		Logger:    log,
	}
	l, err := src.Loader()
	if err != nil {
		return nil, err
	}
	records, err := l.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	// Build the spatial index
	index, err := dataset.New(records)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	log.Debug("index ready", "records", index.Len(), "took", time.Since(start))
	return query.New(index), nil
}

func execute(ctx context.Context, e *query.Engine, cfg config.Config, log *slog.Logger, cmd string, args []string) (any, error) {
	switch cmd {
	case "distance":
		if err := wantArgs(cmd, args, 2, 3); err != nil {
			return nil, err
		}
		unit, err := unitArg(args, 2)
		if err != nil {
			return nil, err
		}
		d, err := e.Distance(args[0], args[1], unit)
		if err != nil {
			return nil, err
		}
		return map[string]any{"distance": d, "unit": unit.String()}, nil

	case "closest":
		if err := wantArgs(cmd, args, 1, 1); err != nil {
			return nil, err
		}
		code, ok, err := e.Closest(args[0])
		if err != nil {
			return nil, err
		}
		if !ok {
			return map[string]any{"closest": nil}, nil
		}
		return map[string]any{"closest": code}, nil

	case "radius":
		if err := wantArgs(cmd, args, 2, 3); err != nil {
			return nil, err
		}
		radius, err := floatArg(args[1])
		if err != nil {
			return nil, err
		}
		unit, err := unitArg(args, 2)
		if err != nil {
			return nil, err
		}
		return e.WithinRadius(args[0], radius, unit)

	case "bbox":
		if err := wantArgs(cmd, args, 2, 2); err != nil {
			return nil, err
		}
		km, err := floatArg(args[1])
		if err != nil {
			return nil, err
		}
		return e.BoundingBox(args[0], km)

	case "inrange":
		if err := wantArgs(cmd, args, 3, 4); err != nil {
			return nil, err
		}
		rng, err := floatArg(args[2])
		if err != nil {
			return nil, err
		}
		unit, err := unitArg(args, 3)
		if err != nil {
			return nil, err
		}
		ok, err := e.InRange(args[0], args[1], rng, unit)
		if err != nil {
			return nil, err
		}
		return map[string]bool{"in_range": ok}, nil

	case "city":
		if err := wantArgs(cmd, args, 1, 1); err != nil {
			return nil, err
		}
		return e.CityAndState(args[0])

	case "summary":
		if err := wantArgs(cmd, args, 1, 1); err != nil {
			return nil, err
		}
		return e.Summary(args[0])

	case "valid":
		if err := wantArgs(cmd, args, 1, 1); err != nil {
			return nil, err
		}
		return map[string]bool{"valid": e.IsValid(args[0])}, nil

	case "midpoint":
		if err := wantArgs(cmd, args, 2, 2); err != nil {
			return nil, err
		}
		return e.Midpoint(args[0], args[1])

	case "sort":
		if len(args) < 1 {
			return nil, fmt.Errorf("%s: need a base zip code", cmd)
		}
		return e.SortByProximity(args[0], args[1:])

	case "group-state":
		return e.GroupByState(), nil

	case "group-county":
		return e.GroupByCounty(), nil

	case "neighborhoods":
		if err := wantArgs(cmd, args, 1, 2); err != nil {
			return nil, err
		}
		radius, err := floatArg(args[0])
		if err != nil {
			return nil, err
		}
		unit, err := unitArg(args, 1)
		if err != nil {
			return nil, err
		}
		zipMap, err := e.Neighborhoods(ctx, radius, unit, query.NeighborhoodOptions{Workers: cfg.Workers, Logger: log})
		if err != nil {
			return nil, err
		}
		if err := outputResults(cfg.Output, zipMap); err != nil {
			return nil, err
		}
		log.Info("wrote neighborhoods", "file", cfg.Output, "codes", len(zipMap))
		return map[string]any{"output": cfg.Output, "codes": len(zipMap)}, nil
	}
	return nil, fmt.Errorf("unknown command %q", cmd)
}

func wantArgs(cmd string, args []string, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		if lo == hi {
			return fmt.Errorf("%s: want %d arguments, got %d", cmd, lo, len(args))
		}
		return fmt.Errorf("%s: want %d to %d arguments, got %d", cmd, lo, hi, len(args))
	}
	return nil
}

func floatArg(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

func unitArg(args []string, i int) (geo.Unit, error) {
	if i >= len(args) {
		return geo.Kilometers, nil
	}
	return geo.ParseUnit(args[i])
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputResults writes the zip -> nearby zips map to path as indented JSON.
func outputResults(path string, zipMap map[string][]string) error {
	jsonData, err := json.MarshalIndent(zipMap, "", "  ")
	if err != nil {
		return fmt.Errorf("could not serialize zipcode json data: %w", err)
	}
	if err := os.WriteFile(path, jsonData, 0o644); err != nil {
		return fmt.Errorf("could not write zipcode data to json: %w", err)
	}
	return nil
}
