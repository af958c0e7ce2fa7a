// Package query implements the zip code lookups: distances, nearest
// neighbour, radius searches, proximity sorting and grouping.
//
// Every method only reads the underlying dataset.Index, so an Engine can be
// used from many goroutines at once. Unknown codes fail with a
// *dataset.NotFoundError.
package query

import (
	"github.com/thomhuang/zipgeo/dataset"
	"github.com/thomhuang/zipgeo/geo"
)

// Engine answers queries against one index.
type Engine struct {
	index *dataset.Index
}

// New returns an Engine over index.
func New(index *dataset.Index) *Engine {
	return &Engine{index: index}
}

// Index returns the index the engine reads.
func (e *Engine) Index() *dataset.Index {
	return e.index
}

// CityState is the city and state of a postal code.
type CityState struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// Summary is everything known about a postal code.
type Summary struct {
	Code      string  `json:"zip_code"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	County    string  `json:"county"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Distance returns the great-circle distance between two codes in unit.
func (e *Engine) Distance(code1, code2 string, unit geo.Unit) (float64, error) {
	a, b, err := e.pair(code1, code2)
	if err != nil {
		return 0, err
	}
	return unit.FromKm(geo.Between(a.Coordinates(), b.Coordinates())), nil
}

// InRange reports whether the distance between two codes is at most rng.
func (e *Engine) InRange(code1, code2 string, rng float64, unit geo.Unit) (bool, error) {
	d, err := e.Distance(code1, code2, unit)
	if err != nil {
		return false, err
	}
	return d <= rng, nil
}

// Midpoint averages the coordinates of two codes.
func (e *Engine) Midpoint(code1, code2 string) (geo.Coordinates, error) {
	a, b, err := e.pair(code1, code2)
	if err != nil {
		return geo.Coordinates{}, err
	}
	return geo.Midpoint(a.Coordinates(), b.Coordinates()), nil
}

// CityAndState returns the city and state labels of code.
func (e *Engine) CityAndState(code string) (CityState, error) {
	r, err := e.index.Lookup(code)
	if err != nil {
		return CityState{}, err
	}
	return CityState{City: r.City, State: r.State}, nil
}

// Summary returns the full record of code.
func (e *Engine) Summary(code string) (Summary, error) {
	r, err := e.index.Lookup(code)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Code:      r.Code,
		City:      r.City,
		State:     r.State,
		County:    r.County,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}, nil
}

// IsValid reports whether code exists.
func (e *Engine) IsValid(code string) bool {
	return e.index.Contains(code)
}

func (e *Engine) pair(code1, code2 string) (dataset.Record, dataset.Record, error) {
	a, err := e.index.Lookup(code1)
	if err != nil {
		return dataset.Record{}, dataset.Record{}, err
	}
	b, err := e.index.Lookup(code2)
	if err != nil {
		return dataset.Record{}, dataset.Record{}, err
	}
	return a, b, nil
}
