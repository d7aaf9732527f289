// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/sessionscope/internal/models"
)

const healthCheckTimeout = 2 * time.Second

// Health handles GET /health. Degraded states still return 200 with the
// failing component flagged; orchestrators should use /health/ready for
// gating traffic.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.healthStatus(r.Context())

	code := http.StatusOK
	if status.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, status, 0)
}

// HealthLive handles GET /health/live. The process answering at all is the
// liveness criterion.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondRaw(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady handles GET /health/ready. Ready means the database answers
// and both scoring models are loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := h.healthStatus(r.Context())
	if status.DatabaseConnected && status.ModelsLoaded {
		respondRaw(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	respondError(w, http.StatusServiceUnavailable, "NOT_READY",
		"Service dependencies are not ready", map[string]any{
			"database_connected": status.DatabaseConnected,
			"models_loaded":      status.ModelsLoaded,
		})
}

func (h *Handler) healthStatus(ctx context.Context) *models.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	dbOK := h.store.Ping(ctx) == nil
	modelsOK := h.registry.Loaded()

	overall := "healthy"
	if !dbOK || !modelsOK {
		overall = "unhealthy"
	}

	return &models.HealthStatus{
		Status:            overall,
		Version:           Version,
		DatabaseConnected: dbOK,
		ModelsLoaded:      modelsOK,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
}
