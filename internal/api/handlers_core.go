// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/sessionscope/internal/logging"
	"github.com/tomtom215/sessionscope/internal/middleware"
)

// Root handles GET /. The flat body matches what the extension's
// connectivity check expects.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	respondRaw(w, http.StatusOK, map[string]string{
		"message": "SessionScope backend is running",
	})
}

// GetSession handles GET /api/v1/sessions/{sessionID}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"session ID is required", nil)
		return
	}

	start := time.Now()
	rec, err := h.store.GetSession(r.Context(), sessionID)
	if err != nil {
		logging.Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Str("session_id", sessionID).
			Msg("Session lookup failed")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR",
			"Failed to query session", nil)
		return
	}
	if rec == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND",
			"Session not found", map[string]any{"session_id": sessionID})
		return
	}

	respondJSON(w, http.StatusOK, rec, time.Since(start))
}

// GetStats handles GET /api/v1/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		logging.Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("Stats query failed")
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR",
			"Failed to compute statistics", nil)
		return
	}

	respondJSON(w, http.StatusOK, stats, time.Since(start))
}
