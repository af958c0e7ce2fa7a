package geo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownUnit is returned by ParseUnit for anything other than a kilometer or mile spelling.
var ErrUnknownUnit = errors.New("unknown distance unit")

// Unit tags a distance. The zero value is Kilometers.
type Unit int

const (
	Kilometers Unit = iota
	Miles
)

// ParseUnit maps a user supplied unit name to a Unit. An empty string means kilometers.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "km", "kms", "kilometer", "kilometers":
		return Kilometers, nil
	case "mi", "mile", "miles":
		return Miles, nil
	}
	return Kilometers, fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

func (u Unit) String() string {
	if u == Miles {
		return "miles"
	}
	return "km"
}

// FromKm converts a kilometer distance into u. Any value other than Miles is
// treated as kilometers.
func (u Unit) FromKm(km float64) float64 {
	if u == Miles {
		return km * MilesPerKm
	}
	return km
}

// ToKm converts a distance expressed in u back to kilometers.
func (u Unit) ToKm(d float64) float64 {
	if u == Miles {
		return d / MilesPerKm
	}
	return d
}
