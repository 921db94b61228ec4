// Package geo provides great-circle geometry helpers for picking sensors
// and stations by proximity.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Point is a geographic coordinate in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Distance returns the great-circle distance between two points in
// kilometers, computed with the haversine formula. Identical points
// yield exactly 0.
func Distance(a, b Point) float64 {
	if a == b {
		return 0
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// Nearest returns the index of the candidate closest to p, or -1 when
// candidates is empty. Ties keep the first-encountered candidate.
func Nearest(p Point, candidates []Point) int {
	best := -1
	bestDist := math.Inf(1)

	for i, c := range candidates {
		if d := Distance(p, c); d < bestDist {
			best = i
			bestDist = d
		}
	}

	return best
}

// ValidCoordinates reports whether lat/lon form a usable coordinate pair.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
