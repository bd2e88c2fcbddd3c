package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Processed  int
	Failed     int
	Geocoded   int
}

// RunStore records a history of extraction runs.
type RunStore struct {
	db *sql.DB
}

func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) Record(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO extraction_runs (id, started_at, finished_at, processed, failed, geocoded)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.Processed, run.Failed, run.Geocoded)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Latest returns the most recently finished run, or nil if none exist.
func (s *RunStore) Latest(ctx context.Context) (*Run, error) {
	run := &Run{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, processed, failed, geocoded FROM extraction_runs
		ORDER BY finished_at DESC LIMIT 1
	`).Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Processed, &run.Failed, &run.Geocoded)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}
