// Package main provides the entrypoint for the AirCast API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/api"
	"github.com/aircast/aircast/internal/api/middleware"
	"github.com/aircast/aircast/internal/config"
	"github.com/aircast/aircast/internal/forecast"
	"github.com/aircast/aircast/internal/sensor"
	"github.com/aircast/aircast/internal/sensor/thingspeak"
	"github.com/aircast/aircast/internal/store"
	"github.com/aircast/aircast/internal/telemetry"
	"github.com/aircast/aircast/internal/upstream"
	"github.com/aircast/aircast/internal/weather"
	"github.com/aircast/aircast/internal/weather/openweathermap"
	"github.com/aircast/aircast/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "aircast-api"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting AirCast API")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()

	tel, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tel.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTelEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	if cfg.OWMAPIKey == "" {
		log.Warn().Msg("OWM_API_KEY not set, weather requests will be rejected upstream")
	}

	// Upstream clients share a health registry surfaced on /api/health.
	upstreams := upstream.NewRegistry()

	sensorHTTP := upstream.NewClient(clientConfig(thingspeak.ProviderName, upstreams))
	weatherHTTP := upstream.NewClient(clientConfig(openweathermap.ProviderName, upstreams))

	registry := sensor.NewRegistry(cfg.Sensors)
	log.Info().Int("sensors", registry.Len()).Msg("sensor registry loaded")

	sensorService := sensor.NewService(sensor.ServiceConfig{
		Provider: thingspeak.NewClient(thingspeak.ClientConfig{
			BaseURL:    cfg.SensorBaseURL,
			HTTPClient: sensorHTTP,
		}),
		Logger:          log,
		CacheTTL:        cfg.SensorCacheTTL,
		StaleIfErrorTTL: cfg.StaleIfErrorTTL,
	})

	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: openweathermap.NewClient(openweathermap.ClientConfig{
			APIKey:     cfg.OWMAPIKey,
			BaseURL:    cfg.OWMBaseURL,
			OneCallURL: cfg.OWMOneCallURL,
			HTTPClient: weatherHTTP,
		}),
		Logger:          log,
		CacheTTL:        cfg.WeatherCacheTTL,
		StaleIfErrorTTL: cfg.StaleIfErrorTTL,
	})

	mem := store.NewMemory()
	seedStore(ctx, mem, cfg.Sensors, log)

	// Background refresh keeps caches warm and retains reading history
	// for trend substitution when a feed goes down.
	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Registry:    registry,
		Sensors:     sensorService,
		Weather:     weatherService,
		History:     mem,
		Logger:      log,
		Concurrency: cfg.RefreshConcurrency,
	})
	scheduler := worker.NewScheduler(refreshJob, cfg.RefreshInterval, log)

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	go scheduler.Run(workerCtx)

	router := api.NewRouter(api.RouterConfig{
		Version:        Version,
		BuildTime:      BuildTime,
		Logger:         log,
		Metrics:        metrics,
		Registry:       registry,
		SensorService:  sensorService,
		WeatherService: weatherService,
		Fallback:       forecast.NewFallback(nil),
		ForecastHours:  cfg.ForecastHours,
		Store:          mem,
		Upstreams:      upstreams,

		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// clientConfig builds the resilient client configuration for a named
// upstream, registered for health tracking.
func clientConfig(name string, registry *upstream.Registry) upstream.ClientConfig {
	cfg := upstream.DefaultClientConfig(name)
	cfg.Registry = registry
	return cfg
}

// seedStore publishes the sensor registry as the station catalogue and
// loads the initial news items.
func seedStore(ctx context.Context, mem *store.Memory, sensors []sensor.Descriptor, log zerolog.Logger) {
	for _, d := range sensors {
		if err := mem.PutStation(ctx, &store.Station{
			ID:      d.ID,
			Name:    d.Name,
			Lat:     d.Lat,
			Lon:     d.Lon,
			Channel: d.Channel,
		}); err != nil {
			log.Error().Err(err).Str("station_id", d.ID).Msg("failed to seed station")
		}
	}

	news := []store.NewsItem{
		{
			Title:       "Understanding the Air Quality Index",
			Summary:     "What AQI categories mean and how to read hourly forecasts.",
			URL:         "https://www.airnow.gov/aqi/aqi-basics/",
			Source:      "AirNow",
			PublishedAt: time.Now().Add(-48 * time.Hour),
		},
		{
			Title:       "How weather shapes urban air pollution",
			Summary:     "Wind, humidity, and pressure all change how pollutants disperse.",
			URL:         "https://www.eea.europa.eu/themes/air",
			Source:      "European Environment Agency",
			PublishedAt: time.Now().Add(-24 * time.Hour),
		},
	}
	for i := range news {
		if err := mem.PutNews(ctx, &news[i]); err != nil {
			log.Error().Err(err).Msg("failed to seed news item")
		}
	}
}
