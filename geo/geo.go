// Package geo holds the spherical-earth math used by the zip code queries:
// haversine distance, distance units and search rectangles.
package geo

import (
	"math"

	"github.com/umahmood/haversine"
)

const (
	// EarthRadiusKm is the sphere radius the haversine distances are computed on.
	EarthRadiusKm = 6371.0
	// MilesPerKm converts kilometers to miles.
	MilesPerKm = 0.621371
)

// Coordinates is a point in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceKm returns the great-circle distance in kilometers between two points.
// Inputs are not range checked.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: lat1, Lon: lon1},
		haversine.Coord{Lat: lat2, Lon: lon2},
	)
	return km
}

// Between is DistanceKm for two Coordinates.
func Between(a, b Coordinates) float64 {
	return DistanceKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// Midpoint averages each coordinate independently. This is a planar
// approximation, not the geodesic midpoint.
func Midpoint(a, b Coordinates) Coordinates {
	return Coordinates{
		Latitude:  (a.Latitude + b.Latitude) / 2,
		Longitude: (a.Longitude + b.Longitude) / 2,
	}
}

// Valid reports whether c is finite and inside the latitude/longitude ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }
