// SessionScope - Browsing Session Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionscope

package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tomtom215/sessionscope/internal/models"
	"github.com/tomtom215/sessionscope/internal/validation"
)

// memStore is an in-memory SessionStore with the same conflict semantics
// as the DuckDB store: first insert per session_id wins, later inserts
// report created=false.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]*models.SessionRecord
	inserts  int
	failGet  error
	failPut  error
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*models.SessionRecord)}
}

func (s *memStore) GetSession(_ context.Context, sessionID string) (*models.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet != nil {
		return nil, s.failGet
	}
	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *memStore) InsertEndedSession(_ context.Context, rec *models.SessionRecord, _ []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut != nil {
		return false, s.failPut
	}
	if _, ok := s.sessions[rec.SessionID]; ok {
		return false, nil
	}
	cp := *rec
	s.sessions[rec.SessionID] = &cp
	s.inserts++
	return true, nil
}

// fixedScorer returns a constant score and counts invocations.
type fixedScorer struct {
	mu    sync.Mutex
	score float64
	err   error
	calls int
}

func (f *fixedScorer) Score(string, models.EngagementPayload) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.score, nil
}

func videoEvent(sessionID string) *models.IngestEvent {
	return &models.IngestEvent{
		SessionID:   sessionID,
		URL:         "https://example.com/watch/1",
		ContentType: "video",
		Engagement: models.EngagementPayload{
			VideoWatchedPercentage: 95.0,
			PauseCount:             2,
			SeekCount:              1,
			SeekPositions:          []float64{42.0},
		},
	}
}

func TestIngestFreshSession(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	gate := NewGate(store, &fixedScorer{score: 0.88})

	result, err := gate.Ingest(context.Background(), videoEvent("sess-1"))
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if result.Status != models.StatusEnded {
		t.Errorf("Status = %q, want %q", result.Status, models.StatusEnded)
	}
	if result.PredictedEngagement != 0.88 {
		t.Errorf("PredictedEngagement = %v, want 0.88", result.PredictedEngagement)
	}
	if result.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want sess-1", result.SessionID)
	}

	rec := store.sessions["sess-1"]
	if rec == nil {
		t.Fatal("session not persisted")
	}
	if !rec.Ended || !rec.IsVideo {
		t.Errorf("persisted rec ended=%v is_video=%v, want true/true", rec.Ended, rec.IsVideo)
	}
	if rec.LastPredEngagement == nil || *rec.LastPredEngagement != 0.88 {
		t.Errorf("persisted score = %v, want 0.88", rec.LastPredEngagement)
	}
}

func TestIngestIdempotent(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	scorer := &fixedScorer{score: 0.61}
	gate := NewGate(store, scorer)
	ctx := context.Background()

	first, err := gate.Ingest(ctx, videoEvent("sess-2"))
	if err != nil {
		t.Fatalf("first Ingest failed: %v", err)
	}
	second, err := gate.Ingest(ctx, videoEvent("sess-2"))
	if err != nil {
		t.Fatalf("second Ingest failed: %v", err)
	}

	if first.Status != models.StatusEnded {
		t.Errorf("first status = %q, want ended", first.Status)
	}
	if second.Status != models.StatusAlreadyIngested {
		t.Errorf("second status = %q, want already_ingested", second.Status)
	}
	if first.PredictedEngagement != second.PredictedEngagement {
		t.Errorf("scores differ across replays: %v vs %v",
			first.PredictedEngagement, second.PredictedEngagement)
	}
	if store.inserts != 1 {
		t.Errorf("inserts = %d, want exactly 1", store.inserts)
	}
	if scorer.calls != 1 {
		t.Errorf("scorer calls = %d, want 1 (replay must not recompute)", scorer.calls)
	}
}

func TestIngestConcurrentSameSession(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	gate := NewGate(store, &fixedScorer{score: 0.73})

	const workers = 16
	var wg sync.WaitGroup
	results := make([]*models.IngestResult, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = gate.Ingest(context.Background(), videoEvent("sess-race"))
		}(i)
	}
	wg.Wait()

	var ended int
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d errored: %v", i, errs[i])
		}
		if results[i].Status == models.StatusEnded {
			ended++
		}
		if results[i].PredictedEngagement != 0.73 {
			t.Errorf("worker %d score = %v, want 0.73", i, results[i].PredictedEngagement)
		}
	}
	if ended != 1 {
		t.Errorf("ended responses = %d, want exactly 1", ended)
	}
	if store.inserts != 1 {
		t.Errorf("inserts = %d, want exactly 1", store.inserts)
	}
}

func TestIngestValidationBeforeScoring(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	scorer := &fixedScorer{score: 0.5}
	gate := NewGate(store, scorer)

	tests := []struct {
		name  string
		event *models.IngestEvent
	}{
		{"missing_session_id", &models.IngestEvent{ContentType: "video"}},
		{"bad_content_type", &models.IngestEvent{SessionID: "s", ContentType: "podcast"}},
		{
			"negative_counts",
			&models.IngestEvent{
				SessionID:   "s",
				ContentType: "video",
				Engagement:  models.EngagementPayload{PauseCount: -1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gate.Ingest(context.Background(), tt.event)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var vErr *validation.RequestValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("expected *validation.RequestValidationError, got %T: %v", err, err)
			}
		})
	}

	if scorer.calls != 0 {
		t.Errorf("scorer calls = %d, want 0 (validation precedes inference)", scorer.calls)
	}
	if store.inserts != 0 {
		t.Errorf("inserts = %d, want 0 (validation precedes persistence)", store.inserts)
	}
}

func TestIngestScoringFailureAbortsPersistence(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	infErr := errors.New("shape mismatch")
	gate := NewGate(store, &fixedScorer{err: infErr})

	_, err := gate.Ingest(context.Background(), videoEvent("sess-err"))
	if !errors.Is(err, infErr) {
		t.Fatalf("expected wrapped inference error, got %v", err)
	}
	if store.inserts != 0 {
		t.Errorf("inserts = %d, want 0 after scoring failure", store.inserts)
	}
}

func TestIngestPersistenceFailure(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.failPut = errors.New("disk full")
	gate := NewGate(store, &fixedScorer{score: 0.5})

	_, err := gate.Ingest(context.Background(), videoEvent("sess-fail"))
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestIngestLostRaceReturnsWinnerScore(t *testing.T) {
	t.Parallel()

	// Store where the fast-path read misses but the insert conflicts,
	// simulating a concurrent winner committing in between.
	store := newMemStore()
	winnerScore := 0.31
	winner := &models.SessionRecord{
		SessionID:          "sess-lost",
		LastPredEngagement: &winnerScore,
		Ended:              true,
	}

	gate := NewGate(&racingStore{memStore: store, winner: winner}, &fixedScorer{score: 0.99})

	result, err := gate.Ingest(context.Background(), videoEvent("sess-lost"))
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if result.Status != models.StatusAlreadyIngested {
		t.Errorf("Status = %q, want already_ingested", result.Status)
	}
	if result.PredictedEngagement != winnerScore {
		t.Errorf("score = %v, want winner's %v", result.PredictedEngagement, winnerScore)
	}
}

// racingStore misses on the first read, rejects the insert, then serves
// the winner's row on the re-read.
type racingStore struct {
	*memStore
	mu     sync.Mutex
	winner *models.SessionRecord
	reads  int
}

func (s *racingStore) GetSession(_ context.Context, _ string) (*models.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.reads == 1 {
		return nil, nil
	}
	cp := *s.winner
	return &cp, nil
}

func (s *racingStore) InsertEndedSession(context.Context, *models.SessionRecord, []byte) (bool, error) {
	return false, nil
}
