package game

import (
	"context"
	"time"
)

// Progress is the persisted campaign state.
type Progress struct {
	HighScore int
	Level     int
}

// ProgressStore loads and saves Progress. Implementations live outside the
// core; internal/store provides the SQLite one.
type ProgressStore interface {
	LoadProgress(ctx context.Context) (Progress, error)
	SaveProgress(ctx context.Context, p Progress) error
}

// MatchResult summarises one finished level attempt.
type MatchResult struct {
	ID         string
	Level      int
	Outcome    Outcome
	Score      int
	Shots      int
	Hits       int
	AIShots    int
	AIHits     int
	Ticks      int
	Duration   time.Duration
	FinishedAt time.Time
}

// MatchRecorder stores MatchResults.
type MatchRecorder interface {
	RecordMatch(ctx context.Context, r MatchResult) error
}

// MemoryStore is an in-process ProgressStore and MatchRecorder for tests
// and the headless tools.
type MemoryStore struct {
	Progress Progress
	Matches  []MatchResult
	Saves    int
}

// LoadProgress returns the held progress.
func (m *MemoryStore) LoadProgress(context.Context) (Progress, error) {
	return m.Progress, nil
}

// SaveProgress replaces the held progress.
func (m *MemoryStore) SaveProgress(_ context.Context, p Progress) error {
	m.Progress = p
	m.Saves++
	return nil
}

// RecordMatch appends r.
func (m *MemoryStore) RecordMatch(_ context.Context, r MatchResult) error {
	m.Matches = append(m.Matches, r)
	return nil
}
