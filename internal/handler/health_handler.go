package handler

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// HealthHandler reports process and database liveness.
type HealthHandler struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(pool *pgxpool.Pool, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		pool:   pool,
		logger: logger.With().Str("handler", "health").Logger(),
	}
}

// Check handles GET /health.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.Ping(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
