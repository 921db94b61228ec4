// Package forecast computes predictive hourly AQI forecasts from sensor
// history and forecasted weather.
package forecast

import "github.com/aircast/aircast/internal/weather"

// Impact holds the per-factor AQI multipliers derived from one hour of
// forecast weather. Each effect sits in roughly [0.7, 1.3]; values above 1
// worsen air quality, values below 1 improve it.
type Impact struct {
	WindEffect        float64 `json:"windEffect"`
	HumidityEffect    float64 `json:"humidityEffect"`
	PressureEffect    float64 `json:"pressureEffect"`
	TemperatureEffect float64 `json:"temperatureEffect"`

	// TotalMultiplier is the arithmetic mean of the four effects.
	TotalMultiplier float64 `json:"totalMultiplier"`
}

// ComputeImpact derives the weather impact multipliers for a single
// forecast point. The thresholds and coefficients are a fixed heuristic,
// not a calibrated physical model, and must not change: downstream
// consumers depend on the exact values.
func ComputeImpact(p weather.Point) Impact {
	impact := Impact{
		WindEffect:        windEffect(p.WindSpeed),
		HumidityEffect:    humidityEffect(p.Humidity),
		PressureEffect:    pressureEffect(p.Pressure),
		TemperatureEffect: temperatureEffect(p.Temperature),
	}

	impact.TotalMultiplier = (impact.WindEffect +
		impact.HumidityEffect +
		impact.PressureEffect +
		impact.TemperatureEffect) / 4

	return impact
}

// windEffect: low wind lets pollutants accumulate, high wind disperses
// them. Speed in km/h.
func windEffect(speed float64) float64 {
	switch {
	case speed < 5:
		return 1.3
	case speed > 15:
		return 0.7
	default:
		return 1.0
	}
}

// humidityEffect: high humidity binds particulates near the ground.
func humidityEffect(humidity float64) float64 {
	switch {
	case humidity < 40:
		return 0.9
	case humidity > 70:
		return 1.2
	default:
		return 1.0
	}
}

// pressureEffect: low pressure traps pollutants. Pressure in hPa.
func pressureEffect(pressure float64) float64 {
	switch {
	case pressure < 1013:
		return 1.2
	case pressure > 1023:
		return 0.9
	default:
		return 1.0
	}
}

// temperatureEffect: heat accelerates ozone formation. Temperature in °C.
func temperatureEffect(temp float64) float64 {
	switch {
	case temp < 15:
		return 0.9
	case temp > 25:
		return 1.15
	default:
		return 1.0
	}
}
