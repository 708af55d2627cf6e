package handlers

import (
	"net/http"

	"moment-admin-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// MetricsHandler handles the weekly metrics endpoint
type MetricsHandler struct {
	metricsService *services.MetricsService
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(metricsService *services.MetricsService) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService}
}

// GetMetrics handles GET /api/metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.metricsService.GetMetrics(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch metrics")
		respondError(w, "Failed to fetch metrics", http.StatusInternalServerError)
		return
	}

	respondJSON(w, metrics, http.StatusOK)
}
