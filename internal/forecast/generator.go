package forecast

import (
	"math"

	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/weather"
)

// Forecast tuning constants. Fixed for behavioral compatibility.
const (
	// secondaryWeight is the blend weight of the regional (secondary)
	// history average.
	secondaryWeight = 0.3

	improvingModifier     = 0.95
	deterioratingModifier = 1.05

	confidenceFloor        = 0.3
	confidenceCeil         = 0.95
	confidenceDecayPerStep = 0.05
)

// Point is a single hour of the computed AQI forecast. Points are
// computed fresh per request and never persisted.
type Point struct {
	// Hour is the local hour of day (0-23) the forecast applies to.
	Hour int `json:"hour"`

	// AQI is the predicted index value, non-negative.
	AQI int `json:"aqi"`

	// Status is the category of the predicted AQI.
	Status aqi.Category `json:"status"`

	// Confidence expresses decreasing certainty farther into the
	// horizon, in [0.3, 0.95].
	Confidence float64 `json:"confidence"`

	// WeatherFactors are the multipliers applied at this step.
	WeatherFactors Impact `json:"weatherFactors"`

	// Prediction is the step-local direction implied by the weather
	// factors alone, independent of the overall trend.
	Prediction aqi.Trend `json:"prediction"`
}

// Compute produces one forecast point per weather point. The primary
// history drives the baseline and trend; the optional secondary history
// blends a regional average into the baseline. An empty primary history
// or weather sequence yields an empty forecast; substituting a fallback
// is the caller's concern.
func Compute(primary []aqi.Reading, wx []weather.Point, secondary []aqi.Reading) []Point {
	if len(primary) == 0 || len(wx) == 0 {
		return nil
	}

	summary := aqi.AnalyzeTrend(primary)

	base := summary.AverageAQI
	if len(secondary) > 0 {
		regional := aqi.AnalyzeTrend(secondary)
		base = base*(1-secondaryWeight) + regional.AverageAQI*secondaryWeight
	}

	modifier := trendModifier(summary.Trend)

	points := make([]Point, 0, len(wx))
	for i, w := range wx {
		impact := ComputeImpact(w)

		// The trend compounds per step, so divergence grows for
		// farther-out hours.
		timeMultiplier := math.Pow(modifier, float64(i+1))

		predicted := math.Round(math.Max(0, base*timeMultiplier*impact.TotalMultiplier))

		points = append(points, Point{
			Hour:           w.Hour,
			AQI:            int(predicted),
			Status:         aqi.Classify(predicted),
			Confidence:     confidence(summary.Volatility, i),
			WeatherFactors: impact,
			Prediction:     stepPrediction(impact.TotalMultiplier),
		})
	}

	return points
}

// trendModifier maps the overall trend to a per-step multiplier.
func trendModifier(t aqi.Trend) float64 {
	switch t {
	case aqi.TrendImproving:
		return improvingModifier
	case aqi.TrendDeteriorating:
		return deterioratingModifier
	default:
		return 1.0
	}
}

// confidence decays linearly with forecast horizon and historical
// volatility, clamped to [0.3, 0.95] and rounded to 2 decimal places.
func confidence(volatility float64, step int) float64 {
	c := 1 - volatility/100 - float64(step)*confidenceDecayPerStep
	if c < confidenceFloor {
		c = confidenceFloor
	}
	if c > confidenceCeil {
		c = confidenceCeil
	}
	return math.Round(c*100) / 100
}

// stepPrediction classifies the step-local direction from the combined
// weather multiplier.
func stepPrediction(totalMultiplier float64) aqi.Trend {
	switch {
	case totalMultiplier < 0.95:
		return aqi.TrendImproving
	case totalMultiplier > 1.05:
		return aqi.TrendDeteriorating
	default:
		return aqi.TrendStable
	}
}
