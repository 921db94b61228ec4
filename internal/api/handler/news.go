package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/store"
)

// NewsHandler handles the news endpoint.
type NewsHandler struct {
	news   store.NewsRepository
	logger zerolog.Logger
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(news store.NewsRepository, logger zerolog.Logger) *NewsHandler {
	return &NewsHandler{news: news, logger: logger}
}

// List handles GET /api/news.
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.news.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list news")
		response.InternalError(w, r, "failed to fetch news")
		return
	}

	response.JSON(w, r, http.StatusOK, items)
}
