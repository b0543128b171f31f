package handler

import (
	"net/http"
	"time"
)

// HealthChecker reports broker connectivity for the readiness probe.
type HealthChecker interface {
	IsConnected() bool
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	nats    HealthChecker
	started time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(nats HealthChecker) *HealthHandler {
	return &HealthHandler{nats: nats, started: time.Now()}
}

// Health is the liveness probe.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.started).String(),
	})
}

// Ready is the readiness probe; it fails while the broker is unreachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.nats != nil && !h.nats.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "nats disconnected"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
