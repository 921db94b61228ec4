package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/forecast"
	"github.com/aircast/aircast/internal/sensor"
	"github.com/aircast/aircast/internal/store"
	"github.com/aircast/aircast/internal/weather"
	"github.com/aircast/aircast/pkg/geo"
)

const (
	// maxForecastHours bounds the hours query parameter.
	maxForecastHours = 48

	// defaultSeedAQI seeds the fallback forecast when no reading is known.
	defaultSeedAQI = 50
)

// AirQualityHandler handles the air quality endpoints.
type AirQualityHandler struct {
	registry      *sensor.Registry
	sensors       *sensor.Service
	weather       *weather.Service
	history       store.HistoryRepository
	fallback      *forecast.Fallback
	forecastHours int
	logger        zerolog.Logger
}

// AirQualityConfig holds dependencies for the air quality handler.
type AirQualityConfig struct {
	Registry *sensor.Registry
	Sensors  *sensor.Service
	Weather  *weather.Service
	History  store.HistoryRepository
	Fallback *forecast.Fallback

	// ForecastHours is the default horizon when the hours parameter is
	// absent (default: 8).
	ForecastHours int

	Logger zerolog.Logger
}

// NewAirQualityHandler creates a new AirQualityHandler.
func NewAirQualityHandler(cfg AirQualityConfig) *AirQualityHandler {
	hours := cfg.ForecastHours
	if hours <= 0 {
		hours = 8
	}

	fb := cfg.Fallback
	if fb == nil {
		fb = forecast.NewFallback(nil)
	}

	return &AirQualityHandler{
		registry:      cfg.Registry,
		sensors:       cfg.Sensors,
		weather:       cfg.Weather,
		history:       cfg.History,
		fallback:      fb,
		forecastHours: hours,
		logger:        cfg.Logger,
	}
}

// Current handles GET /api/air-quality.
func (h *AirQualityHandler) Current(w http.ResponseWriter, r *http.Request) {
	p, err := coordinates(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	match, ok := h.selectSensor(r, p)
	if !ok {
		response.InternalError(w, r, "no sensors registered")
		return
	}

	reading, err := h.sensors.GetCurrent(r.Context(), match.Descriptor)
	if err != nil {
		h.logger.Error().Err(err).
			Str("sensor_id", match.Descriptor.ID).
			Msg("failed to fetch current reading")
		response.InternalError(w, r, "failed to fetch air quality data")
		return
	}

	response.JSON(w, r, http.StatusOK, models.AirQualityResponse{
		AQI:        int(reading.AQI),
		Status:     aqi.Classify(reading.AQI),
		PM25:       reading.PM25,
		PM10:       reading.PM10,
		NO2:        reading.NO2,
		O3:         reading.O3,
		SO2:        reading.SO2,
		CO:         reading.CO,
		MeasuredAt: reading.Timestamp,
		Station:    stationInfo(match),
	})
}

// Forecast handles GET /api/air-quality/forecast.
func (h *AirQualityHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	p, err := coordinates(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	hours := intParam(r, "hours", h.forecastHours, 1, maxForecastHours)

	primary, ok := h.selectSensor(r, p)
	if !ok {
		response.InternalError(w, r, "no sensors registered")
		return
	}
	secondary, hasSecondary := h.secondarySensor(p, primary.Descriptor.ID)

	var (
		wg              sync.WaitGroup
		primaryHist     []aqi.Reading
		primaryErr      error
		secondaryHist   []aqi.Reading
		weatherForecast *weather.Forecast
		weatherErr      error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		primaryHist, primaryErr = h.sensors.GetHistory(r.Context(), primary.Descriptor, aqi.TrendWindow)
	}()

	if hasSecondary {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hist, err := h.sensors.GetHistory(r.Context(), secondary.Descriptor, aqi.TrendWindow)
			if err != nil {
				// Secondary input is best-effort.
				h.logger.Warn().Err(err).
					Str("sensor_id", secondary.Descriptor.ID).
					Msg("secondary history unavailable")
				return
			}
			secondaryHist = hist
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		weatherForecast, weatherErr = h.weather.GetForecast(r.Context(), p.Lat, p.Lon, hours)
	}()

	wg.Wait()

	if weatherErr != nil {
		h.logger.Error().Err(weatherErr).Msg("failed to fetch weather forecast")
		response.InternalError(w, r, "failed to fetch forecast data")
		return
	}

	if primaryErr != nil {
		h.logger.Warn().Err(primaryErr).
			Str("sensor_id", primary.Descriptor.ID).
			Msg("primary history unavailable, falling back to stored readings")
		primaryHist = h.storedHistory(r.Context(), primary.Descriptor.ID)
		if len(primaryHist) == 0 {
			h.logger.Error().Err(primaryErr).
				Str("sensor_id", primary.Descriptor.ID).
				Msg("failed to fetch sensor history")
			response.InternalError(w, r, "failed to fetch air quality data")
			return
		}
	}

	points := forecast.Compute(primaryHist, weatherForecast.Hourly, secondaryHist)

	fellBack := false
	if len(points) == 0 {
		fellBack = true
		points = h.fallback.Generate(h.seedAQI(primaryHist), startHour(weatherForecast), hours)
	}

	response.JSON(w, r, http.StatusOK, models.ForecastResponse{
		Station:  stationInfo(primary),
		Fallback: fellBack,
		Hours:    points,
	})
}

// selectSensor picks the sensor for a request: an apiUrl parameter selects
// a registered feed by URL, otherwise the nearest sensor wins.
func (h *AirQualityHandler) selectSensor(r *http.Request, p geo.Point) (sensor.Match, bool) {
	if apiURL := r.URL.Query().Get("apiUrl"); apiURL != "" {
		if d, ok := h.registry.ByFeedURL(apiURL); ok {
			return sensor.Match{
				Descriptor: d,
				DistanceKm: geo.Distance(p, d.Location()),
			}, true
		}
		h.logger.Warn().Str("api_url", apiURL).Msg("unknown feed URL, using nearest sensor")
	}
	return h.registry.Nearest(p.Lat, p.Lon)
}

// secondarySensor picks the nearest registered sensor other than the
// primary, providing the regional blend input.
func (h *AirQualityHandler) secondarySensor(p geo.Point, primaryID string) (sensor.Match, bool) {
	for _, m := range h.registry.NearestN(p.Lat, p.Lon, 2) {
		if m.Descriptor.ID != primaryID {
			return m, true
		}
	}
	return sensor.Match{}, false
}

// storedHistory reads retained readings from the store when the live feed
// is down. Errors degrade to an empty history.
func (h *AirQualityHandler) storedHistory(ctx context.Context, sensorID string) []aqi.Reading {
	if h.history == nil {
		return nil
	}
	readings, err := h.history.Recent(ctx, sensorID, aqi.TrendWindow)
	if err != nil {
		h.logger.Warn().Err(err).Str("sensor_id", sensorID).Msg("stored history unavailable")
		return nil
	}
	return readings
}

func (h *AirQualityHandler) seedAQI(history []aqi.Reading) float64 {
	if len(history) > 0 {
		return history[len(history)-1].AQI
	}
	return defaultSeedAQI
}

func startHour(f *weather.Forecast) int {
	if f != nil && len(f.Hourly) > 0 {
		return f.Hourly[0].Hour
	}
	return time.Now().Hour()
}

func stationInfo(m sensor.Match) models.StationInfo {
	return models.StationInfo{
		ID:         m.Descriptor.ID,
		Name:       m.Descriptor.Name,
		Lat:        m.Descriptor.Lat,
		Lon:        m.Descriptor.Lon,
		DistanceKm: m.DistanceKm,
	}
}
