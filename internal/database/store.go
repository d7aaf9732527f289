// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/sessionscope/internal/metrics"
	"github.com/tomtom215/sessionscope/internal/models"
)

// InsertEndedSession atomically creates a SessionRecord together with its
// raw-payload audit row. Returns created=false without error when a row
// for the same session_id already exists, including when a concurrent
// transaction wins the insert race. The caller then re-reads the winner's
// committed row.
//
// Both inserts run in one transaction: either the session exists with its
// score and audit trail, or nothing was written. No row is ever visible in
// an ended state without its score.
func (db *DB) InsertEndedSession(ctx context.Context, rec *models.SessionRecord, rawPayload []byte) (created bool, err error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC()
	if rec.StartedAt.IsZero() {
		rec.StartedAt = now
	}
	if rec.LastSeenAt.IsZero() {
		rec.LastSeenAt = now
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", "sessions", time.Since(start), err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil || !created {
			_ = tx.Rollback()
		}
	}()

	res, execErr := tx.ExecContext(ctx, `INSERT INTO sessions (
		id, session_id, user_id, mission_id, url, content_type, is_video,
		started_at, last_seen_at, last_pred_engagement, ended
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (session_id) DO NOTHING`,
		rec.ID, rec.SessionID, rec.UserID, rec.MissionID, rec.URL,
		rec.ContentType, rec.IsVideo, rec.StartedAt, rec.LastSeenAt,
		rec.LastPredEngagement, rec.Ended,
	)
	if execErr != nil {
		if isDuplicateKeyError(execErr) {
			return false, nil
		}
		err = fmt.Errorf("failed to insert session: %w", execErr)
		return false, err
	}

	affected, raErr := res.RowsAffected()
	if raErr != nil {
		err = fmt.Errorf("failed to read insert result: %w", raErr)
		return false, err
	}
	if affected == 0 {
		// Another request holds this session_id; nothing was written.
		return false, nil
	}

	if _, execErr := tx.ExecContext(ctx,
		`INSERT INTO events (id, session_row_id, timestamp, payload) VALUES (?, ?, ?, ?)`,
		uuid.New(), rec.ID, rec.LastSeenAt, string(rawPayload),
	); execErr != nil {
		err = fmt.Errorf("failed to insert engagement event: %w", execErr)
		return false, err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		if isDuplicateKeyError(commitErr) {
			// Lost an optimistic-concurrency race at commit time.
			return false, nil
		}
		err = fmt.Errorf("failed to commit session: %w", commitErr)
		return false, err
	}

	return true, nil
}

// GetSession returns the stored session for a session_id, or nil if no
// row exists.
func (db *DB) GetSession(ctx context.Context, sessionID string) (rec *models.SessionRecord, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "sessions", time.Since(start), err) }()

	row := db.conn.QueryRowContext(ctx, `SELECT
		id, session_id, user_id, mission_id, url, content_type, is_video,
		started_at, last_seen_at, last_pred_engagement, ended
	FROM sessions WHERE session_id = ?`, sessionID)

	var (
		r          models.SessionRecord
		userID     sql.NullInt64
		missionID  sql.NullInt64
		url        sql.NullString
		contentTyp sql.NullString
		score      sql.NullFloat64
	)
	scanErr := row.Scan(&r.ID, &r.SessionID, &userID, &missionID, &url,
		&contentTyp, &r.IsVideo, &r.StartedAt, &r.LastSeenAt, &score, &r.Ended)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return nil, nil
		}
		err = fmt.Errorf("failed to query session %s: %w", sessionID, scanErr)
		return nil, err
	}

	if userID.Valid {
		r.UserID = &userID.Int64
	}
	if missionID.Valid {
		r.MissionID = &missionID.Int64
	}
	r.URL = url.String
	r.ContentType = contentTyp.String
	if score.Valid {
		r.LastPredEngagement = &score.Float64
	}

	return &r, nil
}

// CountSessions returns the number of stored session rows. Used by tests
// and the stats endpoint.
func (db *DB) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}

// GetStats summarizes stored engagement data, including the average
// predicted engagement per mission for sessions attributed to one.
func (db *DB) GetStats(ctx context.Context) (stats *models.Stats, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "stats", time.Since(start), err) }()

	stats = &models.Stats{}

	var avg sql.NullFloat64
	queryErr := db.conn.QueryRowContext(ctx, `SELECT
		COUNT(*),
		COUNT(last_pred_engagement),
		COUNT(*) FILTER (WHERE is_video),
		AVG(last_pred_engagement)
	FROM sessions`).Scan(&stats.TotalSessions, &stats.ScoredSessions, &stats.VideoSessions, &avg)
	if queryErr != nil {
		err = fmt.Errorf("failed to query session stats: %w", queryErr)
		return nil, err
	}
	if avg.Valid {
		stats.AvgEngagement = &avg.Float64
	}

	rows, queryErr := db.conn.QueryContext(ctx, `SELECT
		mission_id, COUNT(*), AVG(last_pred_engagement)
	FROM sessions
	WHERE mission_id IS NOT NULL AND last_pred_engagement IS NOT NULL
	GROUP BY mission_id
	ORDER BY mission_id`)
	if queryErr != nil {
		err = fmt.Errorf("failed to query mission stats: %w", queryErr)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m models.MissionEngagement
		if scanErr := rows.Scan(&m.MissionID, &m.Sessions, &m.AvgEngagement); scanErr != nil {
			err = fmt.Errorf("failed to scan mission stats: %w", scanErr)
			return nil, err
		}
		stats.Missions = append(stats.Missions, m)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		err = fmt.Errorf("error iterating mission stats: %w", rowsErr)
		return nil, err
	}

	return stats, nil
}

// isDuplicateKeyError reports whether an error is a unique-constraint
// violation or an optimistic-concurrency conflict on the same key. DuckDB
// surfaces both as error strings rather than typed errors.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "conflict")
}
