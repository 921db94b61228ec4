package handler

import (
	"net/http"
	"sort"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/store"
	"github.com/aircast/aircast/pkg/geo"
)

// StationsHandler handles the stations endpoint.
type StationsHandler struct {
	stations store.StationRepository
	logger   zerolog.Logger
}

// NewStationsHandler creates a new StationsHandler.
func NewStationsHandler(stations store.StationRepository, logger zerolog.Logger) *StationsHandler {
	return &StationsHandler{stations: stations, logger: logger}
}

// List handles GET /api/stations, returning registered stations sorted by
// distance from the query point.
func (h *StationsHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := coordinates(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	stations, err := h.stations.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list stations")
		response.InternalError(w, r, "failed to fetch stations")
		return
	}

	out := make([]models.StationResponse, 0, len(stations))
	for _, st := range stations {
		out = append(out, models.StationResponse{
			ID:         st.ID,
			Name:       st.Name,
			Lat:        st.Lat,
			Lon:        st.Lon,
			DistanceKm: geo.Distance(p, geo.Point{Lat: st.Lat, Lon: st.Lon}),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})

	response.JSON(w, r, http.StatusOK, out)
}
