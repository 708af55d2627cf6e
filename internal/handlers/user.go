package handlers

import (
	"net/http"

	"moment-admin-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch users")
		respondError(w, "Failed to fetch users", http.StatusInternalServerError)
		return
	}

	log.Debug().Int("count", len(users)).Msg("Users fetched")

	respondJSON(w, users, http.StatusOK)
}

// GetUserDetail handles GET /api/users/{userId}
func (h *UserHandler) GetUserDetail(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	id, err := uuid.Parse(userID)
	if err != nil {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return
	}
	// rows come back in canonical lower-case form
	userID = id.String()

	detail, err := h.userService.GetUserDetail(r.Context(), userID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to fetch user detail")
		respondError(w, "Failed to fetch user detail", http.StatusInternalServerError)
		return
	}

	respondJSON(w, detail, http.StatusOK)
}
