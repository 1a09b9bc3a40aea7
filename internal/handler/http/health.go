package http

import (
	"TinyLink-Backend/internal/analytics"
	"TinyLink-Backend/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	storage repository.Storage
	clicks  *analytics.Processor
	log     *zap.Logger
}

func NewHealthHandler(storage repository.Storage, clicks *analytics.Processor, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		clicks:  clicks,
		log:     log,
	}
}

// HealthResponse is the health check response body.
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Version        string    `json:"version"`
	DatabaseStatus string    `json:"database_status"`
	Uptime         string    `json:"uptime,omitempty"`
}

var startTime = time.Now()

// Health reports overall service health including store reachability.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// A lookup for a code that cannot exist exercises the store without
	// touching real data. Only ErrCodeNotFound counts as healthy.
	dbStatus := "healthy"
	_, err := h.storage.GetLink(ctx, "health-check-non-existent")
	if err != nil && !errors.Is(err, repository.ErrCodeNotFound) {
		dbStatus = "unhealthy"
		h.log.Error("database health check failed", zap.Error(err))
	}

	status := "healthy"
	statusCode := http.StatusOK
	if dbStatus == "unhealthy" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:         status,
		Timestamp:      time.Now(),
		Version:        "1.0.0",
		DatabaseStatus: dbStatus,
		Uptime:         time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("failed to encode health response", zap.Error(err))
	}
}

// Ready is a plain readiness probe.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("failed to encode ready response", zap.Error(err))
	}
}

// Metrics exposes uptime and click-queue counters.
func (h *HealthHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics := map[string]interface{}{
		"uptime_seconds":  time.Since(startTime).Seconds(),
		"timestamp":       time.Now(),
		"version":         "1.0.0",
		"click_processor": h.clicks.GetStats(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(metrics); err != nil {
		h.log.Error("failed to encode metrics response", zap.Error(err))
	}
}
