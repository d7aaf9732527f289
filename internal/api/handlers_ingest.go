// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sessionscope/internal/ingest"
	"github.com/tomtom215/sessionscope/internal/logging"
	"github.com/tomtom215/sessionscope/internal/middleware"
	"github.com/tomtom215/sessionscope/internal/models"
	"github.com/tomtom215/sessionscope/internal/scoring"
	"github.com/tomtom215/sessionscope/internal/validation"
)

// maxIngestBodyBytes caps the ingest request body. Telemetry payloads are
// small; anything near this limit is malformed or hostile.
const maxIngestBodyBytes = 1 << 20

// IngestEvent handles POST /events/ingest.
//
// Response is the flat {session_id, predicted_engagement, status} shape the
// extension expects, not the standard envelope. Both "ended" and
// "already_ingested" are HTTP 200: a duplicate ingest is a recognized
// success path, not an error.
func (h *Handler) IngestEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxIngestBodyBytes)

	var event models.IngestEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON",
			"Request body is not valid JSON", nil)
		return
	}

	result, err := h.gate.Ingest(r.Context(), &event)
	if err != nil {
		h.respondIngestError(w, r, &event, err)
		return
	}

	respondRaw(w, http.StatusOK, result)
}

// respondIngestError maps gate errors onto HTTP statuses. Validation is the
// caller's fault; everything past it is a server-side failure and logs the
// request ID for correlation.
func (h *Handler) respondIngestError(w http.ResponseWriter, r *http.Request, event *models.IngestEvent, err error) {
	var vErr *validation.RequestValidationError
	if errors.As(err, &vErr) {
		apiErr := vErr.ToAPIError()
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	logging.Err(err).
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("session_id", event.SessionID).
		Msg("Ingest failed")

	if errors.Is(err, scoring.ErrModelUnavailable) {
		respondError(w, http.StatusServiceUnavailable, "MODEL_UNAVAILABLE",
			"Scoring model is not available", nil)
		return
	}

	var infErr *scoring.InferenceError
	if errors.As(err, &infErr) {
		respondError(w, http.StatusInternalServerError, "INFERENCE_ERROR",
			"Engagement scoring failed", map[string]any{
				"class": infErr.Class,
			})
		return
	}

	if errors.Is(err, ingest.ErrPersistence) {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR",
			"Failed to persist session", nil)
		return
	}

	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
		"Internal server error", nil)
}
