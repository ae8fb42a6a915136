package handlers

import (
	"net/http"
	"time"
)

// HealthHandler reports liveness and which table version is being served
type HealthHandler struct {
	version   string
	hospitals int
	started   time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(tableVersion string, hospitals int) *HealthHandler {
	return &HealthHandler{version: tableVersion, hospitals: hospitals, started: time.Now()}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"table_version":  h.version,
		"hospitals":      h.hospitals,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}
