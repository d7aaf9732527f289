// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

/*
schema.go - Database Schema Management

Tables:
  - users: extension account holders (referenced by sessions.user_id)
  - missions: course levels that sessions can be attributed to
  - sessions: one row per logical browsing/viewing session; session_id is
    UNIQUE and enforces exactly-once scoring
  - events: append-only audit log of raw engagement payloads

All columns are defined in the initial CREATE TABLE statements; there are
no migrations to run at startup.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables and indexes.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// tableCreationQueries returns the table creation SQL statements.
func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS missions (
			id BIGINT PRIMARY KEY,
			level INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			engagement_score DOUBLE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// session_id UNIQUE is load-bearing: it serializes concurrent
		// first-time ingestions for the same logical session.
		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY,
			session_id TEXT NOT NULL UNIQUE,
			user_id BIGINT,
			mission_id BIGINT,
			url TEXT,
			content_type TEXT,
			is_video BOOLEAN NOT NULL DEFAULT FALSE,
			started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_seen_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_pred_engagement DOUBLE,
			ended BOOLEAN NOT NULL DEFAULT FALSE
		)`,

		`CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY,
			session_row_id UUID NOT NULL,
			timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			payload TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_mission ON sessions(mission_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_row_id)`,
	}
}
