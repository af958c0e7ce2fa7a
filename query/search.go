package query

import (
	"cmp"
	"math"
	"slices"

	"github.com/thomhuang/zipgeo/dataset"
	"github.com/thomhuang/zipgeo/geo"
)

// Proximity is a code and its distance in kilometers from a base code.
type Proximity struct {
	Code     string  `json:"zip"`
	Distance float64 `json:"distance"`
}

// Closest returns the code nearest to code. ok is false when there is no
// other record. On ties the first record in dataset order wins.
func (e *Engine) Closest(code string) (closest string, ok bool, err error) {
	origin, err := e.index.Lookup(code)
	if err != nil {
		return "", false, err
	}

	minDistance := math.Inf(1)
	for r := range e.index.All() {
		if r.Code == origin.Code {
			continue
		}
		// strict < keeps the earliest of equally distant codes
		if d := geo.Between(origin.Coordinates(), r.Coordinates()); d < minDistance {
			minDistance = d
			closest = r.Code
			ok = true
		}
	}
	return closest, ok, nil
}

// WithinRadius returns every code at most radius away from code, measured in
// unit, in dataset order. code itself is included for any radius >= 0.
func (e *Engine) WithinRadius(code string, radius float64, unit geo.Unit) ([]string, error) {
	origin, err := e.index.Lookup(code)
	if err != nil {
		return nil, err
	}
	return e.within(origin, radius, unit), nil
}

// BoundingBox is WithinRadius in kilometers. Despite the name the area is a
// circle, not a rectangle.
func (e *Engine) BoundingBox(code string, km float64) ([]string, error) {
	return e.WithinRadius(code, km, geo.Kilometers)
}

func (e *Engine) within(origin dataset.Record, radius float64, unit geo.Unit) []string {
	center := origin.Coordinates()
	codes := []string{}
	// R-tree narrows the candidates, haversine makes it a radius vs a square
	for r := range e.index.Near(center, unit.ToKm(radius)) {
		if unit.FromKm(geo.Between(center, r.Coordinates())) <= radius {
			codes = append(codes, r.Code)
		}
	}
	return codes
}

// SortByProximity returns codes ordered by kilometer distance from base,
// closest first. Codes at equal distance keep their input order.
func (e *Engine) SortByProximity(base string, codes []string) ([]Proximity, error) {
	origin, err := e.index.Lookup(base)
	if err != nil {
		return nil, err
	}

	sorted := make([]Proximity, 0, len(codes))
	for _, code := range codes {
		r, err := e.index.Lookup(code)
		if err != nil {
			return nil, err
		}
		sorted = append(sorted, Proximity{
			Code:     code,
			Distance: geo.Between(origin.Coordinates(), r.Coordinates()),
		})
	}

	slices.SortStableFunc(sorted, func(a, b Proximity) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return sorted, nil
}
