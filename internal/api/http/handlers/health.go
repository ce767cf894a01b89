package handlers

import (
	"net/http"

	"github.com/streamlog/broker/internal/storage"
)

// HealthResponse represents a health check response
type HealthResponse struct {
	Status     string `json:"status"`
	Topics     int    `json:"topics"`
	Partitions int    `json:"partitions"`
}

// HealthCheck returns a handler that reports a live snapshot of the broker
func HealthCheck(registry *storage.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topics, partitions := registry.Stats()

		writeJSON(w, http.StatusOK, HealthResponse{
			Status:     "healthy",
			Topics:     topics,
			Partitions: partitions,
		})
	}
}

// ReadinessCheck returns a handler that checks if the registry is ready
func ReadinessCheck(registry *storage.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil || !registry.Ready() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
