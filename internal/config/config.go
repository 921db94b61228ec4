// Package config loads application configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/aircast/aircast/internal/sensor"
)

// Config holds the full application configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// Env is the deployment environment (development, staging, production).
	Env string

	// OpenWeatherMap settings.
	OWMAPIKey     string
	OWMBaseURL    string
	OWMOneCallURL string

	// Sensor feed settings.
	SensorBaseURL string
	Sensors       []sensor.Descriptor

	// Cache TTLs.
	SensorCacheTTL  time.Duration
	WeatherCacheTTL time.Duration
	StaleIfErrorTTL time.Duration

	// ForecastHours is the default forecast horizon.
	ForecastHours int

	// Refresh worker settings.
	RefreshInterval    time.Duration
	RefreshConcurrency int

	// Rate limiting.
	RateLimitPerMinute int

	// OpenTelemetry settings.
	OTelEnabled  bool
	OTLPEndpoint string
}

// defaultSensors is the registry used when SENSOR_REGISTRY is unset. The
// two channels cover the demo deployment around Amsterdam and Rotterdam.
var defaultSensors = []sensor.Descriptor{
	{ID: "ams-center", Name: "Amsterdam Centrum", Lat: 52.3702, Lon: 4.8952, Channel: "1596152"},
	{ID: "ams-west", Name: "Amsterdam West", Lat: 52.3775, Lon: 4.8408, Channel: "1596153"},
	{ID: "rtm-center", Name: "Rotterdam Centrum", Lat: 51.9225, Lon: 4.47917, Channel: "1596154"},
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	// Missing .env is fine; containers set real environment variables.
	_ = godotenv.Load()

	cfg := &Config{
		Port:               envString("APP_PORT", "8080"),
		Env:                envString("APP_ENV", "development"),
		OWMAPIKey:          os.Getenv("OWM_API_KEY"),
		OWMBaseURL:         os.Getenv("OWM_BASE_URL"),
		OWMOneCallURL:      os.Getenv("OWM_ONECALL_URL"),
		SensorBaseURL:      os.Getenv("SENSOR_BASE_URL"),
		SensorCacheTTL:     envDuration("SENSOR_CACHE_TTL", 5*time.Minute),
		WeatherCacheTTL:    envDuration("WEATHER_CACHE_TTL", 10*time.Minute),
		StaleIfErrorTTL:    envDuration("STALE_IF_ERROR_TTL", 30*time.Minute),
		ForecastHours:      envInt("FORECAST_HOURS", 8),
		RefreshInterval:    envDuration("REFRESH_INTERVAL", 10*time.Minute),
		RefreshConcurrency: envInt("REFRESH_CONCURRENCY", 4),
		RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 120),
		OTelEnabled:        os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint:       envString("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	sensors, err := loadSensors()
	if err != nil {
		return nil, err
	}
	cfg.Sensors = sensors

	if cfg.ForecastHours <= 0 {
		return nil, fmt.Errorf("FORECAST_HOURS must be positive, got %d", cfg.ForecastHours)
	}
	if cfg.RefreshConcurrency <= 0 {
		return nil, fmt.Errorf("REFRESH_CONCURRENCY must be positive, got %d", cfg.RefreshConcurrency)
	}

	return cfg, nil
}

// loadSensors parses the SENSOR_REGISTRY environment variable, a JSON
// array of sensor descriptors, falling back to the built-in registry.
func loadSensors() ([]sensor.Descriptor, error) {
	raw := os.Getenv("SENSOR_REGISTRY")
	if raw == "" {
		out := make([]sensor.Descriptor, len(defaultSensors))
		copy(out, defaultSensors)
		return out, nil
	}

	var sensors []sensor.Descriptor
	if err := json.Unmarshal([]byte(raw), &sensors); err != nil {
		return nil, fmt.Errorf("parse SENSOR_REGISTRY: %w", err)
	}
	if len(sensors) == 0 {
		return nil, fmt.Errorf("SENSOR_REGISTRY must contain at least one sensor")
	}

	for i, d := range sensors {
		if d.ID == "" {
			return nil, fmt.Errorf("SENSOR_REGISTRY entry %d is missing an id", i)
		}
		if d.Channel == "" && d.FeedURL == "" {
			return nil, fmt.Errorf("sensor %s needs a channel or feedUrl", d.ID)
		}
	}

	return sensors, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
