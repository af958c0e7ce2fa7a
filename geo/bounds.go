package geo

import "math"

// boundsMargin pads search rectangles (degrees) so points sitting exactly on
// the circle survive floating point rounding.
const boundsMargin = 1e-6

// Bounds is a lat/lon rectangle in degrees.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// SearchBounds returns a rectangle containing every point within km of center.
// ok is false when no single rectangle can describe the circle: it reaches a
// pole, crosses the antimeridian, covers a quarter of the globe or more, or the
// input isn't usable. Callers then have to scan everything.
func SearchBounds(center Coordinates, km float64) (b Bounds, ok bool) {
	if math.IsNaN(km) || math.IsInf(km, 0) || km < 0 || !center.Valid() {
		return Bounds{}, false
	}

	// angular radius of the circle
	d := km / EarthRadiusKm
	if d >= math.Pi/2 {
		return Bounds{}, false
	}

	lat := toRadians(center.Latitude)
	lon := toRadians(center.Longitude)

	minLat, maxLat := lat-d, lat+d
	if minLat <= -math.Pi/2 || maxLat >= math.Pi/2 {
		return Bounds{}, false
	}

	// widest longitude offset is where the meridian is tangent to the circle
	dLon := math.Asin(math.Sin(d) / math.Cos(lat))
	if math.IsNaN(dLon) {
		return Bounds{}, false
	}
	minLon, maxLon := lon-dLon, lon+dLon
	if minLon < -math.Pi || maxLon > math.Pi {
		return Bounds{}, false
	}

	return Bounds{
		MinLat: toDegrees(minLat) - boundsMargin,
		MinLon: toDegrees(minLon) - boundsMargin,
		MaxLat: toDegrees(maxLat) + boundsMargin,
		MaxLon: toDegrees(maxLon) + boundsMargin,
	}, true
}

// Contains reports whether c lies inside b, edges included.
func (b Bounds) Contains(c Coordinates) bool {
	return c.Latitude >= b.MinLat && c.Latitude <= b.MaxLat &&
		c.Longitude >= b.MinLon && c.Longitude <= b.MaxLon
}
