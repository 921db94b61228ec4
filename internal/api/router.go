// Package api provides the HTTP API for AirCast.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/api/handler"
	"github.com/aircast/aircast/internal/api/middleware"
	"github.com/aircast/aircast/internal/forecast"
	"github.com/aircast/aircast/internal/sensor"
	"github.com/aircast/aircast/internal/store"
	"github.com/aircast/aircast/internal/upstream"
	"github.com/aircast/aircast/internal/weather"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version   string
	BuildTime string
	Logger    zerolog.Logger

	Metrics        *middleware.Metrics
	AllowedOrigins []string

	Registry       *sensor.Registry
	SensorService  *sensor.Service
	WeatherService *weather.Service
	Fallback       *forecast.Fallback
	ForecastHours  int

	Store     *store.Memory
	Upstreams *upstream.Registry

	// RateLimitPerMinute overrides the standard per-IP limit when
	// positive.
	RateLimitPerMinute int
}

// NewRouter creates a chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware, order matters.
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.ContentTypeJSON)

	airQualityHandler := handler.NewAirQualityHandler(handler.AirQualityConfig{
		Registry:      cfg.Registry,
		Sensors:       cfg.SensorService,
		Weather:       cfg.WeatherService,
		History:       cfg.Store,
		Fallback:      cfg.Fallback,
		ForecastHours: cfg.ForecastHours,
		Logger:        cfg.Logger,
	})
	weatherHandler := handler.NewWeatherHandler(cfg.WeatherService, cfg.Logger)
	newsHandler := handler.NewNewsHandler(cfg.Store.News(), cfg.Logger)
	stationsHandler := handler.NewStationsHandler(cfg.Store.Stations(), cfg.Logger)
	usersHandler := handler.NewUsersHandler(cfg.Store, cfg.Logger)
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Upstreams)

	standardCfg := middleware.StandardRateLimit
	if cfg.RateLimitPerMinute > 0 {
		standardCfg.RequestLimit = cfg.RateLimitPerMinute
	}
	standardRateLimit := middleware.RateLimitByIP(standardCfg)
	forecastRateLimit := middleware.RateLimitByIP(middleware.ForecastRateLimit)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", opsHandler.Health)

		r.Route("/air-quality", func(r chi.Router) {
			r.With(standardRateLimit).Get("/", airQualityHandler.Current)
			// Forecast fans out to multiple upstreams, so it gets the
			// stricter bucket.
			r.With(forecastRateLimit).Get("/forecast", airQualityHandler.Forecast)
		})

		r.Group(func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/weather", weatherHandler.Current)
			r.Get("/news", newsHandler.List)
			r.Get("/stations", stationsHandler.List)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", usersHandler.List)
				r.Post("/", usersHandler.Create)
				r.Route("/{userId}", func(r chi.Router) {
					r.Get("/", usersHandler.Get)
					r.Delete("/", usersHandler.Delete)
				})
			})
		})
	})

	return r
}
