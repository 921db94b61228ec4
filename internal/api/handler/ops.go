package handler

import (
	"net/http"

	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/upstream"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	upstreams *upstream.Registry
}

// NewOpsHandler creates a new OpsHandler. The registry may be nil when no
// upstream health reporting is wanted.
func NewOpsHandler(version, buildTime string, upstreams *upstream.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		upstreams: upstreams,
	}
}

// Health handles GET /api/health.
func (h *OpsHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:    "ok",
		Version:   h.version,
		BuildTime: h.buildTime,
	}

	if h.upstreams != nil {
		for _, u := range h.upstreams.GetAllHealth() {
			resp.Upstreams = append(resp.Upstreams, models.UpstreamStatus{
				Name:          u.Name,
				CircuitState:  u.CircuitState.String(),
				Healthy:       u.IsHealthy(),
				LastSuccessAt: u.LastSuccessAt,
				LastFailureAt: u.LastFailureAt,
				LastError:     u.LastError,
			})
		}
	}

	response.JSON(w, r, http.StatusOK, resp)
}
