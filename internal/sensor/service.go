package sensor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/aqi"
)

// Provider defines the interface for sensor feed providers.
type Provider interface {
	// FetchCurrent fetches the most recent reading for a sensor.
	FetchCurrent(ctx context.Context, d Descriptor) (*aqi.Reading, error)

	// FetchHistory fetches the last count readings, ordered oldest to
	// newest.
	FetchHistory(ctx context.Context, d Descriptor, count int) ([]aqi.Reading, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the sensor service.
type ServiceConfig struct {
	Provider Provider
	Logger   zerolog.Logger

	// CacheTTL is how long to cache feed data (default: 5 minutes).
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale data on feed errors
	// (default: 30 minutes).
	StaleIfErrorTTL time.Duration
}

// Service provides sensor readings with per-sensor caching and
// stale-if-error degradation.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration

	mu        sync.RWMutex
	histories map[string]*cachedHistory
}

type cachedHistory struct {
	readings  []aqi.Reading
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new sensor service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	staleTTL := cfg.StaleIfErrorTTL
	if staleTTL == 0 {
		staleTTL = 30 * time.Minute
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleTTL,
		histories:       make(map[string]*cachedHistory),
	}
}

// GetCurrent returns the most recent reading for a sensor.
func (s *Service) GetCurrent(ctx context.Context, d Descriptor) (*aqi.Reading, error) {
	history, err := s.GetHistory(ctx, d, 1)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, ErrProviderUnavailable
	}
	r := history[len(history)-1]
	return &r, nil
}

// GetHistory returns the last count readings for a sensor, ordered oldest
// to newest, served from cache when fresh and long enough.
func (s *Service) GetHistory(ctx context.Context, d Descriptor, count int) ([]aqi.Reading, error) {
	s.mu.RLock()
	if c, ok := s.histories[d.ID]; ok && time.Now().Before(c.expiresAt) && len(c.readings) >= count {
		readings := lastN(c.readings, count)
		s.mu.RUnlock()
		return readings, nil
	}
	s.mu.RUnlock()

	return s.refreshHistory(ctx, d, count, false)
}

// RefreshHistory forces a feed fetch for a sensor, updating the cache.
// Used by the refresh worker to keep caches warm.
func (s *Service) RefreshHistory(ctx context.Context, d Descriptor, count int) ([]aqi.Reading, error) {
	return s.refreshHistory(ctx, d, count, true)
}

// InvalidateCache clears all cached histories.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories = make(map[string]*cachedHistory)
}

func (s *Service) refreshHistory(ctx context.Context, d Descriptor, count int, force bool) ([]aqi.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have refreshed while we waited for the lock.
	if c, ok := s.histories[d.ID]; !force && ok && time.Now().Before(c.expiresAt) && len(c.readings) >= count {
		return lastN(c.readings, count), nil
	}

	fetchCount := count
	if cached, ok := s.histories[d.ID]; ok && len(cached.readings) > fetchCount {
		fetchCount = len(cached.readings)
	}

	readings, err := s.provider.FetchHistory(ctx, d, fetchCount)
	if err != nil {
		s.logger.Error().Err(err).
			Str("sensor_id", d.ID).
			Str("provider", s.provider.Name()).
			Msg("failed to fetch sensor history")

		if c, ok := s.histories[d.ID]; ok && time.Now().Before(c.fetchedAt.Add(s.staleIfErrorTTL)) {
			s.logger.Warn().
				Str("sensor_id", d.ID).
				Time("fetched_at", c.fetchedAt).
				Msg("serving stale sensor history due to feed error")
			return lastN(c.readings, count), nil
		}
		return nil, err
	}

	now := time.Now()
	s.histories[d.ID] = &cachedHistory{
		readings:  readings,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	s.logger.Debug().
		Str("sensor_id", d.ID).
		Int("readings", len(readings)).
		Msg("sensor history refreshed")

	return lastN(readings, count), nil
}

// lastN returns a copy of the last n readings, preserving order.
func lastN(readings []aqi.Reading, n int) []aqi.Reading {
	if n <= 0 || n > len(readings) {
		n = len(readings)
	}
	out := make([]aqi.Reading, n)
	copy(out, readings[len(readings)-n:])
	return out
}
