package aqi

import "math"

// Trend is the directional classification of recent AQI movement.
type Trend string

// Trend directions.
const (
	TrendImproving     Trend = "improving"
	TrendStable        Trend = "stable"
	TrendDeteriorating Trend = "deteriorating"
)

const (
	// TrendWindow is the maximum number of recent readings considered.
	TrendWindow = 6

	// defaultAverageAQI is the fallback average when no history exists.
	defaultAverageAQI = 50

	// slopeThreshold separates a stable trend from a directional one.
	slopeThreshold = 0.5
)

// TrendSummary is the derived summary of recent AQI history. It is
// recomputed per request and never stored.
type TrendSummary struct {
	Trend      Trend
	Volatility float64
	AverageAQI float64
}

// AnalyzeTrend summarizes an ordered (oldest to newest) sequence of
// readings. Only the most recent readings, up to the trend window, are
// considered. Fewer than two readings always yield a stable trend with
// zero volatility.
func AnalyzeTrend(readings []Reading) TrendSummary {
	values := recentValues(readings)

	switch len(values) {
	case 0:
		return TrendSummary{Trend: TrendStable, AverageAQI: defaultAverageAQI}
	case 1:
		return TrendSummary{Trend: TrendStable, AverageAQI: values[0]}
	}

	n := float64(len(values))

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	mean := sumY / n

	var variance float64
	for _, y := range values {
		variance += (y - mean) * (y - mean)
	}
	variance /= n

	trend := TrendStable
	switch {
	case slope < -slopeThreshold:
		trend = TrendImproving
	case slope > slopeThreshold:
		trend = TrendDeteriorating
	}

	return TrendSummary{
		Trend:      trend,
		Volatility: math.Sqrt(variance),
		AverageAQI: mean,
	}
}

// recentValues extracts the AQI values of the most recent readings,
// preserving order.
func recentValues(readings []Reading) []float64 {
	start := 0
	if len(readings) > TrendWindow {
		start = len(readings) - TrendWindow
	}

	values := make([]float64, 0, len(readings)-start)
	for _, r := range readings[start:] {
		values = append(values, r.AQI)
	}
	return values
}
