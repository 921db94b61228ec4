package aqi

// Category is the health-relevance band for an AQI value.
type Category string

// AQI categories, following the standard EPA breakpoints.
const (
	CategoryGood          Category = "Good"
	CategoryModerate      Category = "Moderate"
	CategorySensitive     Category = "Unhealthy for Sensitive Groups"
	CategoryUnhealthy     Category = "Unhealthy"
	CategoryVeryUnhealthy Category = "Very Unhealthy"
	CategoryHazardous     Category = "Hazardous"
)

// Classify maps an AQI value to its category. Breakpoints are inclusive
// upper bounds. The function is total: negative inputs classify as Good.
func Classify(v float64) Category {
	switch {
	case v <= 50:
		return CategoryGood
	case v <= 100:
		return CategoryModerate
	case v <= 150:
		return CategorySensitive
	case v <= 200:
		return CategoryUnhealthy
	case v <= 300:
		return CategoryVeryUnhealthy
	default:
		return CategoryHazardous
	}
}
