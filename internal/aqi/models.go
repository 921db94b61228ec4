// Package aqi provides the Air Quality Index domain model: readings,
// the categorical classifier, and historical trend analysis.
package aqi

import "time"

// MaxAQI is the upper bound of the AQI scale.
const MaxAQI = 500

// Reading is a single aggregated sensor reading. Pollutant concentrations
// (µg/m³) are optional; nil means the sensor did not report the value.
type Reading struct {
	AQI       float64
	PM25      *float64
	PM10      *float64
	NO2       *float64
	O3        *float64
	SO2       *float64
	CO        *float64
	Timestamp time.Time
}

// ClampAQI forces a raw upstream value into the valid [0, MaxAQI] range.
func ClampAQI(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > MaxAQI {
		return MaxAQI
	}
	return v
}

// ClampConcentration forces a pollutant concentration to be non-negative.
func ClampConcentration(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
