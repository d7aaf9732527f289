// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

// Package models defines the data structures shared across SessionScope:
// the telemetry payload contract with the browser extension, the persisted
// session shape, and the API request/response envelopes.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Ingest statuses returned by POST /events/ingest.
//
// A repeated ingest for a known session_id is not an error: it is a
// recognized alternate success path that returns the previously stored
// score without recomputing it.
const (
	StatusEnded           = "ended"
	StatusAlreadyIngested = "already_ingested"
)

// EngagementPayload is the per-session telemetry snapshot reported by the
// extension when the user ends a session.
//
// The schema is content-type-agnostic: every session carries all fields,
// and the scoring pipeline selects the relevant subset downstream based on
// the event's content type. Absent numeric fields decode to zero, which is
// the documented default for scoring.
type EngagementPayload struct {
	ScrollDepth            float64   `json:"scroll_depth" validate:"min=0"`
	MaxScrollDepth         float64   `json:"max_scroll_depth" validate:"min=0"`
	IdleTime               int64     `json:"idle_time" validate:"min=0"`
	ReadingTime            int64     `json:"reading_time" validate:"min=0"`
	TotalScrolls           int64     `json:"total_scrolls" validate:"min=0"`
	TabSwitches            int64     `json:"tab_switches" validate:"min=0"`
	TabAwayTime            float64   `json:"tab_away_time" validate:"min=0"`
	VideoWatchedPercentage float64   `json:"video_watched_percentage" validate:"min=0,max=100"`
	VideoDuration          int64     `json:"video_duration" validate:"min=0"`
	VideoCurrentTime       int64     `json:"video_current_time" validate:"min=0"`
	IsVideoPlaying         bool      `json:"is_video_playing"`
	PauseCount             int64     `json:"pause_count" validate:"min=0"`
	SeekCount              int64     `json:"seek_count" validate:"min=0"`
	SeekPositions          []float64 `json:"seek_positions" validate:"omitempty,dive,min=0,max=100"`
}

// IngestEvent wraps one EngagementPayload with session identity and
// context. SessionID is the caller-supplied deduplication key and is
// treated as untrusted input.
type IngestEvent struct {
	SessionID   string            `json:"session_id" validate:"required"`
	URL         string            `json:"url"`
	Timestamp   time.Time         `json:"timestamp"`
	ContentType string            `json:"content_type" validate:"omitempty,oneof=video article webpage"`
	Engagement  EngagementPayload `json:"engagement"`

	// Optional references populated when the extension user is logged in.
	UserID    *int64 `json:"user_id,omitempty"`
	MissionID *int64 `json:"mission_id,omitempty"`
}

// IngestResult is the response body for POST /events/ingest.
type IngestResult struct {
	SessionID           string  `json:"session_id"`
	PredictedEngagement float64 `json:"predicted_engagement"`
	Status              string  `json:"status"`
}

// SessionRecord is the persisted unit of idempotency: exactly one row per
// logical session_id, created on first ingestion.
//
// Identity fields are immutable after creation. LastPredEngagement and
// LastSeenAt are the only fields mutated after the row exists, and both are
// written in the same transaction that creates the row on the ingest path.
type SessionRecord struct {
	ID                 uuid.UUID  `json:"id"`
	SessionID          string     `json:"session_id"`
	UserID             *int64     `json:"user_id,omitempty"`
	MissionID          *int64     `json:"mission_id,omitempty"`
	URL                string     `json:"url"`
	ContentType        string     `json:"content_type"`
	IsVideo            bool       `json:"is_video"`
	StartedAt          time.Time  `json:"started_at"`
	LastSeenAt         time.Time  `json:"last_seen_at"`
	LastPredEngagement *float64   `json:"last_pred_engagement,omitempty"`
	Ended              bool       `json:"ended"`
}

// EngagementEvent is one append-only audit row holding the raw payload
// received for a session. Not required for scoring correctness, only for
// traceability; never mutated after insertion.
type EngagementEvent struct {
	ID        uuid.UUID `json:"id"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   []byte    `json:"payload"`
}

// Stats summarizes stored engagement data for the dashboard.
type Stats struct {
	TotalSessions  int64               `json:"total_sessions"`
	ScoredSessions int64               `json:"scored_sessions"`
	VideoSessions  int64               `json:"video_sessions"`
	AvgEngagement  *float64            `json:"avg_engagement,omitempty"`
	Missions       []MissionEngagement `json:"missions,omitempty"`
}

// MissionEngagement is the average predicted engagement across all scored
// sessions attributed to one mission.
type MissionEngagement struct {
	MissionID     int64   `json:"mission_id"`
	Sessions      int64   `json:"sessions"`
	AvgEngagement float64 `json:"avg_engagement"`
}

// HealthStatus reports service health for GET /health.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	ModelsLoaded      bool    `json:"models_loaded"`
	Uptime            float64 `json:"uptime_seconds"`
}

// APIResponse is the standard envelope for non-ingest endpoints.
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data,omitempty"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata carries response timing information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the machine-readable error body.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
