package weather_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/weather"
)

type mockProvider struct {
	mu       sync.Mutex
	calls    int
	err      error
	forecast *weather.Forecast
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) GetCurrent(_ context.Context, lat, lon float64) (*weather.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &weather.Observation{Lat: lat, Lon: lon, Temperature: 18.5}, nil
}

func (m *mockProvider) GetForecast(_ context.Context, lat, lon float64, hours int) (*weather.Forecast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.forecast != nil {
		return m.forecast, nil
	}
	hourly := make([]weather.Point, hours)
	for i := range hourly {
		hourly[i] = weather.Point{Hour: i % 24}
	}
	return &weather.Forecast{Lat: lat, Lon: lon, Hourly: hourly}, nil
}

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newTestService(p weather.Provider) *weather.Service {
	return weather.NewService(weather.ServiceConfig{
		Provider: p,
		Logger:   zerolog.Nop(),
		CacheTTL: time.Minute,
	})
}

func TestService_GetCurrent_Caches(t *testing.T) {
	provider := &mockProvider{}
	svc := newTestService(provider)

	obs, err := svc.GetCurrent(context.Background(), 52.37, 4.89)
	require.NoError(t, err)
	assert.Equal(t, 18.5, obs.Temperature)

	_, err = svc.GetCurrent(context.Background(), 52.37, 4.89)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.callCount())
}

func TestService_GetCurrent_GridCellSharing(t *testing.T) {
	provider := &mockProvider{}
	svc := newTestService(provider)

	// Two points in the same 0.1 degree cell share a cache entry.
	_, err := svc.GetCurrent(context.Background(), 52.371, 4.891)
	require.NoError(t, err)
	_, err = svc.GetCurrent(context.Background(), 52.379, 4.899)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.callCount())

	// A point in a different cell triggers a fresh fetch.
	_, err = svc.GetCurrent(context.Background(), 52.51, 4.89)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.callCount())
}

func TestService_GetCurrent_InvalidCoordinates(t *testing.T) {
	svc := newTestService(&mockProvider{})

	_, err := svc.GetCurrent(context.Background(), 91, 0)
	assert.ErrorIs(t, err, weather.ErrInvalidCoordinates)
}

func TestService_GetCurrent_StaleIfError(t *testing.T) {
	provider := &mockProvider{}
	svc := weather.NewService(weather.ServiceConfig{
		Provider:        provider,
		Logger:          zerolog.Nop(),
		CacheTTL:        time.Nanosecond, // force immediate expiry
		StaleIfErrorTTL: time.Hour,
	})

	_, err := svc.GetCurrent(context.Background(), 52.37, 4.89)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	provider.err = errors.New("provider down")

	obs, err := svc.GetCurrent(context.Background(), 52.37, 4.89)
	require.NoError(t, err)
	assert.Equal(t, 18.5, obs.Temperature)
}

func TestService_GetCurrent_ErrorWithoutCache(t *testing.T) {
	provider := &mockProvider{err: errors.New("provider down")}
	svc := newTestService(provider)

	_, err := svc.GetCurrent(context.Background(), 52.37, 4.89)
	assert.ErrorIs(t, err, weather.ErrProviderUnavailable)
}

func TestService_GetForecast_TruncatesCached(t *testing.T) {
	provider := &mockProvider{forecast: &weather.Forecast{
		Hourly: []weather.Point{{Hour: 1}, {Hour: 2}, {Hour: 3}, {Hour: 4}},
	}}
	svc := newTestService(provider)

	f, err := svc.GetForecast(context.Background(), 52.37, 4.89, 4)
	require.NoError(t, err)
	assert.Len(t, f.Hourly, 4)

	// A shorter horizon is served from the cached forecast.
	f, err = svc.GetForecast(context.Background(), 52.37, 4.89, 2)
	require.NoError(t, err)
	assert.Len(t, f.Hourly, 2)
	assert.Equal(t, 1, provider.callCount())
}

func TestService_GetForecast_ShortRequestDoesNotShrinkCache(t *testing.T) {
	provider := &mockProvider{}
	svc := newTestService(provider)

	f, err := svc.GetForecast(context.Background(), 52.37, 4.89, 1)
	require.NoError(t, err)
	assert.Len(t, f.Hourly, 1)

	// A longer horizon on the same cell is served from the full cached
	// forecast, not from the earlier request's truncation.
	f, err = svc.GetForecast(context.Background(), 52.37, 4.89, 8)
	require.NoError(t, err)
	assert.Len(t, f.Hourly, 8)
	assert.Equal(t, 1, provider.callCount())
}

func TestService_InvalidateCache(t *testing.T) {
	provider := &mockProvider{}
	svc := newTestService(provider)

	_, err := svc.GetCurrent(context.Background(), 52.37, 4.89)
	require.NoError(t, err)

	svc.InvalidateCache()

	_, err = svc.GetCurrent(context.Background(), 52.37, 4.89)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.callCount())
}
