// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

// Package ingest enforces exactly-once scoring per logical session.
//
// Each session_id moves through two states: absent, then ingested. The
// first ingestion request persists the session with its score; every
// later request for the same session_id returns the stored score with
// status "already_ingested" and never recomputes or overwrites it.
//
// The duplicate check is a fast-path read backstopped by the sessions
// table's UNIQUE constraint, so two concurrent first-time requests cannot
// both win: the loser re-reads the winner's committed row.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sessionscope/internal/features"
	"github.com/tomtom215/sessionscope/internal/logging"
	"github.com/tomtom215/sessionscope/internal/metrics"
	"github.com/tomtom215/sessionscope/internal/models"
	"github.com/tomtom215/sessionscope/internal/validation"
)

// ErrPersistence marks storage failures after validation. The request is
// aborted without partial commit, so the caller may retry safely: the
// ingest path is idempotent.
var ErrPersistence = errors.New("persistence failure")

// SessionStore is the minimal storage contract the gate needs.
// *database.DB satisfies it.
type SessionStore interface {
	// GetSession returns the stored session for a session_id, or nil if
	// absent.
	GetSession(ctx context.Context, sessionID string) (*models.SessionRecord, error)

	// InsertEndedSession atomically creates the session row with its
	// score plus the raw-payload audit row. Returns created=false when
	// the session_id already exists.
	InsertEndedSession(ctx context.Context, rec *models.SessionRecord, rawPayload []byte) (bool, error)
}

// Scorer is the pure scoring contract. *scoring.Pipeline satisfies it.
type Scorer interface {
	Score(contentType string, eng models.EngagementPayload) (float64, error)
}

// Gate orchestrates validation, scoring, and idempotent persistence for
// final session ingestion.
type Gate struct {
	store  SessionStore
	scorer Scorer
}

// NewGate builds an ingestion gate over a store and a scorer.
func NewGate(store SessionStore, scorer Scorer) *Gate {
	return &Gate{store: store, scorer: scorer}
}

// Ingest processes one end-of-session event.
//
// Validation runs before any persistence or inference. Fresh sessions are
// scored and committed in a single transaction; replays return the stored
// score with status "already_ingested".
func (g *Gate) Ingest(ctx context.Context, event *models.IngestEvent) (*models.IngestResult, error) {
	if err := validation.ValidateStruct(event); err != nil {
		return nil, err
	}

	// Fast path: a known session_id returns the stored score without
	// touching the models.
	existing, err := g.store.GetSession(ctx, event.SessionID)
	if err != nil {
		metrics.RecordIngest("error")
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if existing != nil {
		return g.replayResult(existing), nil
	}

	contentType := event.ContentType
	if contentType == "" {
		contentType = features.DefaultContentType
	}

	scoreStart := time.Now()
	score, err := g.scorer.Score(contentType, event.Engagement)
	if err != nil {
		metrics.RecordIngest("error")
		return nil, err
	}
	metrics.RecordScoring(features.Classify(contentType).String(), time.Since(scoreStart))

	rawPayload, err := json.Marshal(event.Engagement)
	if err != nil {
		metrics.RecordIngest("error")
		return nil, fmt.Errorf("failed to encode audit payload: %w", err)
	}

	now := time.Now().UTC()
	rec := &models.SessionRecord{
		SessionID:          event.SessionID,
		UserID:             event.UserID,
		MissionID:          event.MissionID,
		URL:                event.URL,
		ContentType:        contentType,
		IsVideo:            features.Classify(contentType) == features.ClassVideo,
		StartedAt:          now,
		LastSeenAt:         now,
		LastPredEngagement: &score,
		Ended:              true,
	}

	created, err := g.store.InsertEndedSession(ctx, rec, rawPayload)
	if err != nil {
		metrics.RecordIngest("error")
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !created {
		// Lost the race against a concurrent first ingestion: the
		// winner's row is committed, return its score.
		winner, err := g.store.GetSession(ctx, event.SessionID)
		if err != nil {
			metrics.RecordIngest("error")
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if winner == nil {
			metrics.RecordIngest("error")
			return nil, fmt.Errorf("%w: session %s vanished after insert conflict", ErrPersistence, event.SessionID)
		}
		return g.replayResult(winner), nil
	}

	metrics.RecordIngest(models.StatusEnded)
	logging.Info().
		Str("session_id", event.SessionID).
		Str("content_type", contentType).
		Float64("predicted_engagement", score).
		Msg("Session ingested")

	return &models.IngestResult{
		SessionID:           event.SessionID,
		PredictedEngagement: score,
		Status:              models.StatusEnded,
	}, nil
}

// replayResult builds the duplicate-ingestion response from a stored row.
func (g *Gate) replayResult(rec *models.SessionRecord) *models.IngestResult {
	var score float64
	if rec.LastPredEngagement != nil {
		score = *rec.LastPredEngagement
	}
	metrics.RecordIngest(models.StatusAlreadyIngested)
	return &models.IngestResult{
		SessionID:           rec.SessionID,
		PredictedEngagement: score,
		Status:              models.StatusAlreadyIngested,
	}
}
