package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/weather"
)

// WeatherHandler handles the weather endpoint.
type WeatherHandler struct {
	weather *weather.Service
	logger  zerolog.Logger
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(svc *weather.Service, logger zerolog.Logger) *WeatherHandler {
	return &WeatherHandler{weather: svc, logger: logger}
}

// Current handles GET /api/weather.
func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	p, err := coordinates(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	obs, err := h.weather.GetCurrent(r.Context(), p.Lat, p.Lon)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to fetch current weather")
		response.InternalError(w, r, "failed to fetch weather data")
		return
	}

	response.JSON(w, r, http.StatusOK, models.WeatherResponse{
		Temperature: obs.Temperature,
		Humidity:    obs.Humidity,
		WindSpeed:   obs.WindSpeed,
		Pressure:    obs.Pressure,
		Description: obs.Description,
		Icon:        obs.Icon,
		ObservedAt:  obs.ObservedAt,
	})
}
