// Package models defines the request and response shapes of the HTTP API.
package models

import (
	"time"

	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/forecast"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StationInfo identifies the sensor a reading came from.
type StationInfo struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	DistanceKm float64 `json:"distanceKm"`
}

// AirQualityResponse is the current air quality at a location.
type AirQualityResponse struct {
	AQI        int          `json:"aqi"`
	Status     aqi.Category `json:"status"`
	PM25       *float64     `json:"pm25"`
	PM10       *float64     `json:"pm10"`
	NO2        *float64     `json:"no2"`
	O3         *float64     `json:"o3"`
	SO2        *float64     `json:"so2"`
	CO         *float64     `json:"co"`
	MeasuredAt time.Time    `json:"measuredAt"`
	Station    StationInfo  `json:"station"`
}

// ForecastResponse is the hourly AQI forecast at a location.
type ForecastResponse struct {
	Station  StationInfo      `json:"station"`
	Fallback bool             `json:"fallback"`
	Hours    []forecast.Point `json:"hours"`
}

// WeatherResponse is the current weather observation at a location.
type WeatherResponse struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Pressure    float64   `json:"pressure"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	ObservedAt  time.Time `json:"observedAt"`
}

// StationResponse is a registered station with its distance from the
// query point.
type StationResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	DistanceKm float64 `json:"distanceKm"`
}

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpstreamStatus reports the circuit breaker health of one upstream feed.
type UpstreamStatus struct {
	Name          string     `json:"name"`
	CircuitState  string     `json:"circuitState"`
	Healthy       bool       `json:"healthy"`
	LastSuccessAt *time.Time `json:"lastSuccessAt,omitempty"`
	LastFailureAt *time.Time `json:"lastFailureAt,omitempty"`
	LastError     string     `json:"lastError,omitempty"`
}

// HealthResponse reports liveness plus upstream breaker health.
type HealthResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version"`
	BuildTime string           `json:"buildTime"`
	Upstreams []UpstreamStatus `json:"upstreams,omitempty"`
}
