package handlers

import (
	"net/http"

	"moment-admin-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BetaGroupHandler handles the beta group directory
type BetaGroupHandler struct {
	betaGroupService *services.BetaGroupService
}

// NewBetaGroupHandler creates a new beta group handler
func NewBetaGroupHandler(betaGroupService *services.BetaGroupService) *BetaGroupHandler {
	return &BetaGroupHandler{betaGroupService: betaGroupService}
}

// ListGroups handles GET /api/beta-groups
func (h *BetaGroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.betaGroupService.ListGroups(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch beta groups")
		respondError(w, "Failed to fetch beta groups", http.StatusInternalServerError)
		return
	}

	respondJSON(w, groups, http.StatusOK)
}

// GetGroup handles GET /api/beta-groups/{groupId}
func (h *BetaGroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupId")

	id, err := uuid.Parse(groupID)
	if err != nil {
		respondError(w, "Invalid group id", http.StatusBadRequest)
		return
	}
	groupID = id.String()

	detail, err := h.betaGroupService.GetGroup(r.Context(), groupID)
	if err != nil {
		log.Error().
			Err(err).
			Str("group_id", groupID).
			Msg("Failed to fetch beta group")
		respondError(w, "Failed to fetch beta group", http.StatusInternalServerError)
		return
	}

	respondJSON(w, detail, http.StatusOK)
}
