package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Pinger checks that the database is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the service can reach the database
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /healthz
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		respondError(w, "database unreachable", http.StatusServiceUnavailable)
		return
	}

	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
