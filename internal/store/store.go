// Package store persists campaign progress and match history in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/Garsondee/Tank-Duel/internal/game"
)

// ErrInvalidProgress is returned when asked to save negative values.
var ErrInvalidProgress = errors.New("progress values must be non-negative")

var (
	_ game.ProgressStore = (*Store)(nil)
	_ game.MatchRecorder = (*Store)(nil)
)

// Store is a SQLite-backed game.ProgressStore and game.MatchRecorder.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=2000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS progress (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			high_score INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			level INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			score INTEGER NOT NULL,
			shots INTEGER NOT NULL,
			hits INTEGER NOT NULL,
			ai_shots INTEGER NOT NULL,
			ai_hits INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			finished_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS matches_finished_at ON matches(finished_at)`,
	} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("create table: %w", err)
		}
	}

	s := &Store{db: db, logger: log.New(io.Discard)}
	for _, o := range opts {
		o(s)
	}
	s.logger.Debug("store opened", "path", path)
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadProgress returns the saved progress, or level 1 with no high score
// when nothing has been saved yet.
func (s *Store) LoadProgress(ctx context.Context) (game.Progress, error) {
	p := game.Progress{Level: 1}
	err := s.db.QueryRowContext(ctx,
		`SELECT high_score, level FROM progress WHERE id = 1`).Scan(&p.HighScore, &p.Level)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Progress{Level: 1}, nil
	}
	if err != nil {
		return game.Progress{Level: 1}, fmt.Errorf("load progress: %w", err)
	}
	return p, nil
}

// SaveProgress replaces the saved progress.
func (s *Store) SaveProgress(ctx context.Context, p game.Progress) error {
	if p.HighScore < 0 || p.Level < 0 {
		return fmt.Errorf("save progress %+v: %w", p, ErrInvalidProgress)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO progress (id, high_score, level, updated_at)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   high_score = excluded.high_score,
		   level = excluded.level,
		   updated_at = excluded.updated_at`,
		p.HighScore, p.Level, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	s.logger.Debug("progress saved", "high_score", p.HighScore, "level", p.Level)
	return nil
}

// RecordMatch inserts one finished level attempt.
func (s *Store) RecordMatch(ctx context.Context, r game.MatchResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO matches (id, level, outcome, score, shots, hits, ai_shots, ai_hits, ticks, duration_ms, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Level, r.Outcome.String(), r.Score, r.Shots, r.Hits, r.AIShots, r.AIHits,
		r.Ticks, r.Duration.Milliseconds(), r.FinishedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record match %s: %w", r.ID, err)
	}
	s.logger.Debug("match recorded", "id", r.ID, "level", r.Level, "outcome", r.Outcome)
	return nil
}

// RecentMatches returns up to limit matches, newest first.
func (s *Store) RecentMatches(ctx context.Context, limit int) ([]game.MatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, level, outcome, score, shots, hits, ai_shots, ai_hits, ticks, duration_ms, finished_at
		 FROM matches ORDER BY finished_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []game.MatchResult
	for rows.Next() {
		var (
			r          game.MatchResult
			outcome    string
			durationMS int64
			finishedAt string
		)
		if err := rows.Scan(&r.ID, &r.Level, &outcome, &r.Score, &r.Shots, &r.Hits,
			&r.AIShots, &r.AIHits, &r.Ticks, &durationMS, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if r.Outcome, err = game.ParseOutcome(outcome); err != nil {
			return nil, fmt.Errorf("match %s: %w", r.ID, err)
		}
		if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, fmt.Errorf("match %s finished_at: %w", r.ID, err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return out, nil
}

// Summary aggregates the whole match history.
type Summary struct {
	Matches   int
	Victories int
	Defeats   int
	BestScore int
	Shots     int
	Hits      int
}

// Summarize returns totals over every recorded match.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(outcome = ?), 0),
		        COALESCE(SUM(outcome = ?), 0),
		        COALESCE(MAX(score), 0),
		        COALESCE(SUM(shots), 0),
		        COALESCE(SUM(hits), 0)
		 FROM matches`,
		game.OutcomeVictory.String(), game.OutcomeDefeat.String(),
	).Scan(&sum.Matches, &sum.Victories, &sum.Defeats, &sum.BestScore, &sum.Shots, &sum.Hits)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize matches: %w", err)
	}
	return sum, nil
}
