package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"gpx-navigation-service/internal/platform/obs"
)

type HealthHandler struct {
	// Optional storage probe, e.g. (*sql.DB).PingContext.
	Ping func(ctx context.Context) error
}

// Health reports liveness and, when a probe is configured, storage reachability.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.Ping(ctx); err != nil {
			log.Printf("req_id=%s health storage ping failed: %v", obs.RequestID(r.Context()), err)
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "storage": "unreachable"})
			return
		}
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
