// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

// Package api provides HTTP handlers and routing for SessionScope.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_ingest.go: final-session ingestion endpoint
//   - handlers_core.go: root banner, session lookup, stats
//   - handlers_health.go: health and probe endpoints
//   - helpers.go: shared response helpers
//   - router.go: chi route wiring
package api

import (
	"context"
	"time"

	"github.com/tomtom215/sessionscope/internal/config"
	"github.com/tomtom215/sessionscope/internal/ingest"
	"github.com/tomtom215/sessionscope/internal/models"
	"github.com/tomtom215/sessionscope/internal/scoring"
)

// Version is the reported service version.
const Version = "1.0.0"

// Store is the read-side storage contract the handlers need beyond the
// ingestion gate. *database.DB satisfies it.
type Store interface {
	GetSession(ctx context.Context, sessionID string) (*models.SessionRecord, error)
	GetStats(ctx context.Context) (*models.Stats, error)
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers.
type Handler struct {
	gate      *ingest.Gate
	store     Store
	registry  *scoring.Registry
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a new API handler.
//
// Dependencies:
//   - gate: ingestion gate enforcing exactly-once scoring
//   - store: read access for session lookup, stats, and health probing
//   - registry: loaded model registry, reported by the readiness probe
//   - cfg: application configuration
func NewHandler(gate *ingest.Gate, store Store, registry *scoring.Registry, cfg *config.Config) *Handler {
	return &Handler{
		gate:      gate,
		store:     store,
		registry:  registry,
		config:    cfg,
		startTime: time.Now(),
	}
}
