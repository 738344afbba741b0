package geo

import "math"

// nullIslandTolerance is how close to (0, 0) a pair may sit before it is
// treated as a placeholder rather than a real position.
const nullIslandTolerance = 1e-5

// Coordinate is a WGS84 longitude/latitude pair in degrees.
type Coordinate struct {
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`
}

// NormalizeLongitude wraps a longitude into the (-180, 180] range.
//
// Non-finite input yields 0. Values already in range pass through unchanged,
// so the operation is idempotent.
func NormalizeLongitude(lon float64) float64 {
	if !isFinite(lon) {
		return 0
	}

	// two correction passes cover (-540, 540]; reduce anything wider first
	if lon > 540 || lon < -540 {
		lon = math.Mod(lon, 360)
	}

	for n := 0; n < 2; n++ {
		if lon > 180 {
			lon -= 360
		} else if lon <= -180 {
			lon += 360
		}
	}

	return lon
}

// IsWGS84Plausible reports whether a pair looks like a usable WGS84 position.
//
// Longitudes in (180, 360] are accepted as an unwrapped encoding. Pairs at
// "null island" are rejected since they are almost always a default value.
func IsWGS84Plausible(lon, lat float64) bool {
	if !isFinite(lon) || !isFinite(lat) {
		return false
	}

	lonOK := (lon >= -180 && lon <= 180) || (lon > 180 && lon <= 360)
	latOK := lat >= -90 && lat <= 90
	if !lonOK || !latOK {
		return false
	}

	return math.Abs(lon) > nullIslandTolerance || math.Abs(lat) > nullIslandTolerance
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
