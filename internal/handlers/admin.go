package handlers

import (
	"errors"
	"net/http"

	"moment-admin-backend/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// AdminHandler handles the dashboard access gate
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// VerifyRequest represents the request body for the password check
type VerifyRequest struct {
	Password string `json:"password" validate:"required"`
}

// VerifyResponse is returned when the password matches
type VerifyResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
}

// Verify handles POST /api/admin/verify
func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		respondError(w, "password is required", http.StatusBadRequest)
		return
	}

	token, err := h.adminService.Verify(req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPassword) {
			log.Warn().Str("remote_addr", r.RemoteAddr).Msg("Admin password rejected")
			respondError(w, "Invalid password", http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Msg("Failed to issue admin token")
		respondError(w, "Authentication failed", http.StatusInternalServerError)
		return
	}

	respondJSON(w, VerifyResponse{OK: true, Token: token}, http.StatusOK)
}
