package weather

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/pkg/geo"
)

// Provider defines the interface for weather data providers.
type Provider interface {
	// GetCurrent fetches current weather for a location.
	GetCurrent(ctx context.Context, lat, lon float64) (*Observation, error)

	// GetForecast fetches an hourly forecast for a location with at most
	// hours points.
	GetForecast(ctx context.Context, lat, lon float64, hours int) (*Forecast, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	Provider Provider
	Logger   zerolog.Logger

	// CacheTTL is how long to cache weather data (default: 10 minutes).
	CacheTTL time.Duration

	// CacheGridSize groups nearby points into grid cells, in degrees
	// (default: 0.1, about 11km at the equator).
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale data on provider errors
	// (default: 1 hour).
	StaleIfErrorTTL time.Duration
}

// Service provides weather data with grid-cell caching and stale-if-error
// degradation.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration

	mu        sync.RWMutex
	current   map[string]*cachedEntry[*Observation]
	forecasts map[string]*cachedEntry[*Forecast]
}

type cachedEntry[T any] struct {
	value     T
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	gridSize := cfg.CacheGridSize
	if gridSize == 0 {
		gridSize = 0.1
	}

	staleTTL := cfg.StaleIfErrorTTL
	if staleTTL == 0 {
		staleTTL = time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   gridSize,
		staleIfErrorTTL: staleTTL,
		current:         make(map[string]*cachedEntry[*Observation]),
		forecasts:       make(map[string]*cachedEntry[*Forecast]),
	}
}

// GetCurrent returns the current weather for a location, served from cache
// when fresh.
func (s *Service) GetCurrent(ctx context.Context, lat, lon float64) (*Observation, error) {
	if !geo.ValidCoordinates(lat, lon) {
		return nil, ErrInvalidCoordinates
	}

	key := s.cacheKey(lat, lon)

	s.mu.RLock()
	if c, ok := s.current[key]; ok && time.Now().Before(c.expiresAt) {
		s.mu.RUnlock()
		return c.value, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have refreshed while we waited for the lock.
	if c, ok := s.current[key]; ok && time.Now().Before(c.expiresAt) {
		return c.value, nil
	}

	obs, err := s.provider.GetCurrent(ctx, lat, lon)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Str("provider", s.provider.Name()).
			Msg("failed to fetch current weather")

		if c, ok := s.current[key]; ok && time.Now().Before(c.fetchedAt.Add(s.staleIfErrorTTL)) {
			s.logger.Warn().
				Time("fetched_at", c.fetchedAt).
				Msg("serving stale weather data due to provider error")
			return c.value, nil
		}
		return nil, ErrProviderUnavailable
	}

	now := time.Now()
	s.current[key] = &cachedEntry[*Observation]{value: obs, fetchedAt: now, expiresAt: now.Add(s.cacheTTL)}
	return obs, nil
}

// maxHorizonHours is the horizon fetched from the provider. The full
// horizon is cached per grid cell and truncated per request, so one
// request's hours never limits what later requests can be served.
const maxHorizonHours = 48

// GetForecast returns the hourly forecast for a location with at most hours
// points, served from cache when fresh.
func (s *Service) GetForecast(ctx context.Context, lat, lon float64, hours int) (*Forecast, error) {
	if !geo.ValidCoordinates(lat, lon) {
		return nil, ErrInvalidCoordinates
	}

	key := s.cacheKey(lat, lon)

	s.mu.RLock()
	if c, ok := s.forecasts[key]; ok && time.Now().Before(c.expiresAt) {
		s.mu.RUnlock()
		return truncated(c.value, hours), nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.forecasts[key]; ok && time.Now().Before(c.expiresAt) {
		return truncated(c.value, hours), nil
	}

	forecast, err := s.provider.GetForecast(ctx, lat, lon, maxHorizonHours)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Str("provider", s.provider.Name()).
			Msg("failed to fetch weather forecast")

		if c, ok := s.forecasts[key]; ok && time.Now().Before(c.fetchedAt.Add(s.staleIfErrorTTL)) {
			s.logger.Warn().
				Time("fetched_at", c.fetchedAt).
				Msg("serving stale forecast data due to provider error")
			return truncated(c.value, hours), nil
		}
		return nil, ErrProviderUnavailable
	}

	now := time.Now()
	s.forecasts[key] = &cachedEntry[*Forecast]{value: forecast, fetchedAt: now, expiresAt: now.Add(s.cacheTTL)}
	return truncated(forecast, hours), nil
}

// InvalidateCache clears all cached data.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = make(map[string]*cachedEntry[*Observation])
	s.forecasts = make(map[string]*cachedEntry[*Forecast])
}

// cacheKey groups nearby points into grid cells to reduce provider calls.
func (s *Service) cacheKey(lat, lon float64) string {
	gridLat := math.Floor(lat/s.cacheGridSize) * s.cacheGridSize
	gridLon := math.Floor(lon/s.cacheGridSize) * s.cacheGridSize
	return fmt.Sprintf("%.2f:%.2f", gridLat, gridLon)
}

// truncated returns a copy of f limited to the first hours points. A
// non-positive hours returns the forecast unmodified.
func truncated(f *Forecast, hours int) *Forecast {
	if f == nil || hours <= 0 || len(f.Hourly) <= hours {
		return f
	}
	cp := *f
	cp.Hourly = f.Hourly[:hours]
	return &cp
}
