package handler

import (
	"context"
	"net/http"
	"time"

	"pdf-converter/internal/repository"
)

// healthBody is the exact liveness payload consumed by the container
// HEALTHCHECK.
const healthBody = `{"status": "healthy"}`

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	store *repository.Store
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store *repository.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Live is the pure liveness probe: it has no side effects and no downstream
// dependencies. Returning 200 means only that the process can serve requests.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(healthBody))
}

// Ready additionally pings the database, for supervisors that want to gate
// traffic on downstream availability.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"reason": "database unreachable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
