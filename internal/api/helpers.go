// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sessionscope/internal/logging"
	"github.com/tomtom215/sessionscope/internal/models"
)

// respondJSON writes a success response in the standard envelope.
func respondJSON(w http.ResponseWriter, status int, data any, queryTime time.Duration) {
	response := models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: queryTime.Milliseconds(),
		},
	}
	writeJSON(w, status, response)
}

// respondRaw writes a body without the envelope. The ingest endpoint uses
// this: its flat response shape is a contract with the browser extension.
func respondRaw(w http.ResponseWriter, status int, body any) {
	writeJSON(w, status, body)
}

// respondError writes an error response in the standard envelope.
func respondError(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	response := models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	writeJSON(w, status, response)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already sent; nothing to do but log.
		logging.Err(err).Msg("Failed to encode response")
	}
}
