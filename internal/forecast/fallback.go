package forecast

import (
	"math"
	"math/rand"
	"time"

	"github.com/aircast/aircast/internal/aqi"
)

// fallbackJitter is the half-width of the random walk applied around the
// seed AQI.
const fallbackJitter = 10.0

// Fallback produces a naive randomized forecast for when no sensor
// history is available. The random source is injected so tests can pin
// the output.
type Fallback struct {
	rng *rand.Rand
}

// NewFallback creates a Fallback. A nil rng gets a time-seeded source.
func NewFallback(rng *rand.Rand) *Fallback {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // non-cryptographic jitter
	}
	return &Fallback{rng: rng}
}

// Generate returns hours forecast points starting at startHour, wandering
// randomly around seedAQI. Confidence is pinned to the floor since the
// values carry no signal.
func (f *Fallback) Generate(seedAQI float64, startHour, hours int) []Point {
	if hours <= 0 {
		return nil
	}
	if seedAQI <= 0 {
		seedAQI = 50
	}

	points := make([]Point, 0, hours)
	value := seedAQI

	for i := 0; i < hours; i++ {
		value += (f.rng.Float64()*2 - 1) * fallbackJitter
		value = math.Max(0, math.Min(aqi.MaxAQI, value))

		predicted := math.Round(value)
		points = append(points, Point{
			Hour:       (startHour + i) % 24,
			AQI:        int(predicted),
			Status:     aqi.Classify(predicted),
			Confidence: confidenceFloor,
			WeatherFactors: Impact{
				WindEffect:        1.0,
				HumidityEffect:    1.0,
				PressureEffect:    1.0,
				TemperatureEffect: 1.0,
				TotalMultiplier:   1.0,
			},
			Prediction: aqi.TrendStable,
		})
	}

	return points
}
