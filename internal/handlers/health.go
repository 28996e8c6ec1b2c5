package handlers

import (
	"context"
	"net/http"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	DB Pinger
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.DB != nil {
		if err := h.DB.Ping(ctx); err != nil {
			respondFailure(ctx, w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}

	respondData(ctx, w, http.StatusOK, map[string]string{"status": "ok"}, "healthy")
}
