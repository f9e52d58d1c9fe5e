package handlers

import (
	"context"
	"net/http"
	"time"
)

// Check tests one dependency
type Check func(ctx context.Context) error

// HealthHandler reports liveness and optional dependency status
type HealthHandler struct {
	service string
	started time.Time
	checks  map[string]Check
}

// NewHealthHandler creates a health handler; checks may be empty
func NewHealthHandler(service string, checks map[string]Check) *HealthHandler {
	return &HealthHandler{
		service: service,
		started: time.Now(),
		checks:  checks,
	}
}

// Health returns server health status
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			components[name] = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}

	respondJSON(w, code, map[string]interface{}{
		"status":         status,
		"service":        h.service,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"components":     components,
	})
}
