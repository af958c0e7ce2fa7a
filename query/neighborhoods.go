package query

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thomhuang/zipgeo/dataset"
	"github.com/thomhuang/zipgeo/geo"
	"github.com/thomhuang/zipgeo/internal/logger"
)

// Neighborhood is a code and every code within the requested radius of it.
type Neighborhood struct {
	Code   string
	Nearby []string
}

// NeighborhoodOptions tunes Neighborhoods.
type NeighborhoodOptions struct {
	// Workers is the number of goroutines computing radii. <= 0 means GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

// Neighborhoods runs WithinRadius for every code in the index and returns the
// results keyed by code. The work is spread over a pool of workers; it stops
// early when ctx is canceled.
func (e *Engine) Neighborhoods(ctx context.Context, radius float64, unit geo.Unit, opts NeighborhoodOptions) (map[string][]string, error) {
	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	log := logger.OrDiscard(opts.Logger)
	start := time.Now()

	// buffered so producer and consumers don't wait on each other on every item
	jobs := make(chan dataset.Record, numWorkers*2)
	results := make(chan Neighborhood, numWorkers*2)

	g, ctx := errgroup.WithContext(ctx)

	// feed jobs while the workers run, closing jobs tells them nothing else is coming
	g.Go(func() error {
		defer close(jobs)
		for r := range e.index.All() {
			select {
			case jobs <- r:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var workers sync.WaitGroup
	for range numWorkers {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			for r := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}
				nb := Neighborhood{Code: r.Code, Nearby: e.within(r, radius, unit)}
				select {
				case results <- nb:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	// results is only closed once every worker is gone, which ends the collect loop below
	go func() {
		workers.Wait()
		close(results)
	}()

	out := make(map[string][]string, e.index.Len())
	for nb := range results {
		out[nb.Code] = nb.Nearby
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("computed neighborhoods",
		"codes", len(out),
		"radius", radius,
		"unit", unit.String(),
		"workers", numWorkers,
		"took", time.Since(start),
	)
	return out, nil
}
