package aqi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aircast/aircast/internal/aqi"
)

func TestClassify_Breakpoints(t *testing.T) {
	tests := []struct {
		name string
		aqi  float64
		want aqi.Category
	}{
		{"negative treated as good", -10, aqi.CategoryGood},
		{"zero", 0, aqi.CategoryGood},
		{"good upper bound", 50, aqi.CategoryGood},
		{"just above good", 51, aqi.CategoryModerate},
		{"moderate upper bound", 100, aqi.CategoryModerate},
		{"just above moderate", 101, aqi.CategorySensitive},
		{"sensitive upper bound", 150, aqi.CategorySensitive},
		{"just above sensitive", 151, aqi.CategoryUnhealthy},
		{"unhealthy upper bound", 200, aqi.CategoryUnhealthy},
		{"just above unhealthy", 201, aqi.CategoryVeryUnhealthy},
		{"very unhealthy upper bound", 300, aqi.CategoryVeryUnhealthy},
		{"hazardous", 301, aqi.CategoryHazardous},
		{"extreme", 999, aqi.CategoryHazardous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aqi.Classify(tt.aqi))
		})
	}
}

func TestClampAQI(t *testing.T) {
	assert.Equal(t, 0.0, aqi.ClampAQI(-5))
	assert.Equal(t, 42.0, aqi.ClampAQI(42))
	assert.Equal(t, 500.0, aqi.ClampAQI(1200))
}

func TestClampConcentration(t *testing.T) {
	assert.Equal(t, 0.0, aqi.ClampConcentration(-0.1))
	assert.Equal(t, 12.5, aqi.ClampConcentration(12.5))
}
