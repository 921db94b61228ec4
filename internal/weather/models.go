// Package weather provides weather data access with caching.
package weather

import (
	"errors"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Observation represents current weather at a location.
type Observation struct {
	Lat float64
	Lon float64

	// Temperature in Celsius.
	Temperature float64

	// Humidity percentage (0-100).
	Humidity float64

	// WindSpeed in km/h.
	WindSpeed float64

	// Pressure in hPa.
	Pressure float64

	Description string
	Icon        string

	ObservedAt time.Time
	FetchedAt  time.Time
}

// Point is a single hour of forecast weather. Immutable once produced by
// a provider.
type Point struct {
	// Hour is the local hour of day (0-23) the forecast applies to.
	Hour int

	// Temperature in Celsius.
	Temperature float64

	// Humidity percentage (0-100).
	Humidity float64

	// WindSpeed in km/h.
	WindSpeed float64

	// Pressure in hPa.
	Pressure float64

	Description string
	Icon        string
}

// Forecast is an ordered hourly weather forecast for a location.
type Forecast struct {
	Lat       float64
	Lon       float64
	Hourly    []Point
	FetchedAt time.Time
}
