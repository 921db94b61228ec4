// Package handler provides HTTP handlers for the AirCast API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aircast/aircast/pkg/geo"
)

var (
	errMissingCoordinates = errors.New("lat and lon query parameters are required")
	errInvalidCoordinates = errors.New("lat and lon must be valid coordinates")
)

// coordinates extracts and validates the lat/lon query parameters.
func coordinates(r *http.Request) (geo.Point, error) {
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")
	if latStr == "" || lonStr == "" {
		return geo.Point{}, errMissingCoordinates
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return geo.Point{}, errInvalidCoordinates
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return geo.Point{}, errInvalidCoordinates
	}

	if !geo.ValidCoordinates(lat, lon) {
		return geo.Point{}, errInvalidCoordinates
	}

	return geo.Point{Lat: lat, Lon: lon}, nil
}

// intParam parses an optional integer query parameter, clamped to
// [min, max]. Absent or malformed values yield the fallback.
func intParam(r *http.Request, name string, fallback, min, max int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
