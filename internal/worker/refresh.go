// Package worker implements the background refresh job that keeps sensor
// and weather caches warm and retains reading history.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/sensor"
	"github.com/aircast/aircast/internal/store"
	"github.com/aircast/aircast/internal/weather"
)

// RefreshJob refreshes upstream data for every registered sensor.
type RefreshJob struct {
	registry *sensor.Registry
	sensors  *sensor.Service
	weather  *weather.Service
	history  store.HistoryRepository
	logger   zerolog.Logger

	concurrency int
	timeout     time.Duration

	mu      sync.RWMutex
	metrics RefreshMetrics
}

// RefreshJobConfig holds configuration for a RefreshJob.
type RefreshJobConfig struct {
	Registry *sensor.Registry
	Sensors  *sensor.Service

	// Weather is optional; when set, the job also warms the weather
	// cache per sensor location.
	Weather *weather.Service

	// History is optional; when set, fetched readings are appended to
	// the store for trend substitution when feeds go down.
	History store.HistoryRepository

	Logger zerolog.Logger

	// Concurrency bounds parallel sensor refreshes (default: 4).
	Concurrency int

	// Timeout bounds the work done per sensor (default: 30s).
	Timeout time.Duration
}

// RefreshMetrics tracks cumulative refresh statistics.
type RefreshMetrics struct {
	Runs             int64
	SensorsRefreshed int64
	SensorsFailed    int64
	WeatherRefreshed int64
	WeatherFailed    int64
	LastRunAt        time.Time
	LastRunDuration  time.Duration
}

// RefreshResult is the outcome of one job run.
type RefreshResult struct {
	StartTime  time.Time
	Duration   time.Duration
	Total      int
	Successful int
	Failed     int
	Errors     []RefreshError
}

// RefreshError records a per-sensor failure.
type RefreshError struct {
	SensorID string
	Stage    string
	Error    string
}

// NewRefreshJob creates a refresh job.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &RefreshJob{
		registry:    cfg.Registry,
		sensors:     cfg.Sensors,
		weather:     cfg.Weather,
		history:     cfg.History,
		logger:      cfg.Logger,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// Run refreshes every registered sensor once, with bounded concurrency.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	descriptors := j.registry.All()
	result := &RefreshResult{
		StartTime: time.Now(),
		Total:     len(descriptors),
	}

	j.logger.Info().
		Int("sensors", len(descriptors)).
		Int("concurrency", j.concurrency).
		Msg("starting refresh job")

	work := make(chan sensor.Descriptor, len(descriptors))
	results := make(chan sensorResult, len(descriptors))

	var wg sync.WaitGroup
	for i := 0; i < j.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range work {
				select {
				case <-ctx.Done():
					return
				default:
					results <- j.refreshSensor(ctx, d)
				}
			}
		}()
	}

	for _, d := range descriptors {
		work <- d
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	for sr := range results {
		if sr.success {
			result.Successful++
		} else {
			result.Failed++
		}
		result.Errors = append(result.Errors, sr.errors...)
	}

	result.Duration = time.Since(result.StartTime)
	j.record(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("refresh job completed")

	return result
}

type sensorResult struct {
	success bool
	errors  []RefreshError
}

// refreshSensor forces a history fetch for one sensor, appends the
// readings to the store, and warms the weather cache for its location.
func (j *RefreshJob) refreshSensor(ctx context.Context, d sensor.Descriptor) sensorResult {
	sr := sensorResult{success: true}

	sensorCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	readings, err := j.sensors.RefreshHistory(sensorCtx, d, aqi.TrendWindow)
	if err != nil {
		sr.success = false
		sr.errors = append(sr.errors, RefreshError{SensorID: d.ID, Stage: "sensor", Error: err.Error()})
		j.bumpSensor(false)
	} else {
		j.bumpSensor(true)
		if j.history != nil && len(readings) > 0 {
			if err := j.history.Append(sensorCtx, d.ID, readings...); err != nil {
				j.logger.Warn().Err(err).Str("sensor_id", d.ID).Msg("failed to retain readings")
			}
		}
	}

	if j.weather != nil {
		if _, err := j.weather.GetCurrent(sensorCtx, d.Lat, d.Lon); err != nil {
			// Weather warmup failures do not fail the sensor.
			sr.errors = append(sr.errors, RefreshError{SensorID: d.ID, Stage: "weather", Error: err.Error()})
			j.bumpWeather(false)
		} else {
			j.bumpWeather(true)
		}
	}

	return sr
}

func (j *RefreshJob) bumpSensor(ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if ok {
		j.metrics.SensorsRefreshed++
	} else {
		j.metrics.SensorsFailed++
	}
}

func (j *RefreshJob) bumpWeather(ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if ok {
		j.metrics.WeatherRefreshed++
	} else {
		j.metrics.WeatherFailed++
	}
}

func (j *RefreshJob) record(result *RefreshResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.metrics.Runs++
	j.metrics.LastRunAt = result.StartTime
	j.metrics.LastRunDuration = result.Duration
}

// Metrics returns a copy of the cumulative metrics.
func (j *RefreshJob) Metrics() RefreshMetrics {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.metrics
}
