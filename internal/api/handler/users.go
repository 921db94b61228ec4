package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/store"
)

// UsersHandler handles the user CRUD endpoints.
type UsersHandler struct {
	users  store.UserRepository
	logger zerolog.Logger
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(users store.UserRepository, logger zerolog.Logger) *UsersHandler {
	return &UsersHandler{users: users, logger: logger}
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list users")
		response.InternalError(w, r, "failed to fetch users")
		return
	}
	response.JSON(w, r, http.StatusOK, users)
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		response.BadRequest(w, r, "name and email are required")
		return
	}

	user := &store.User{Name: req.Name, Email: req.Email}
	if err := h.users.Create(r.Context(), user); err != nil {
		h.logger.Error().Err(err).Msg("failed to create user")
		response.InternalError(w, r, "failed to create user")
		return
	}

	response.Created(w, r, user)
}

// Get handles GET /api/users/{userId}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		h.logger.Error().Err(err).Str("user_id", id).Msg("failed to get user")
		response.InternalError(w, r, "failed to fetch user")
		return
	}

	response.JSON(w, r, http.StatusOK, user)
}

// Delete handles DELETE /api/users/{userId}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")

	if err := h.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		h.logger.Error().Err(err).Str("user_id", id).Msg("failed to delete user")
		response.InternalError(w, r, "failed to delete user")
		return
	}

	response.NoContent(w, r)
}
