package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/istiaq-ahsan/soloSphere-server/internal/worker/domain"
	"github.com/jmoiron/sqlx"
)

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// ReconcileBidCount recounts the bids of a job and rewrites its bid_count
// when the stored value has drifted. The job row stays locked while counting
// so a concurrent PlaceBid cannot slip in between.
func (s *Storage) ReconcileBidCount(ctx context.Context, jobID string) (*domain.Reconciliation, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rec := &domain.Reconciliation{JobID: jobID}

	err = tx.GetContext(ctx, &rec.Previous, `SELECT bid_count FROM jobs WHERE id = $1 FOR UPDATE`, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to lock job: %w", err)
	}

	err = tx.GetContext(ctx, &rec.Actual, `SELECT COUNT(*) FROM bids WHERE job_id = $1`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to count bids: %w", err)
	}

	if rec.Drift() != 0 {
		if _, err := tx.ExecContext(ctx, `UPDATE jobs SET bid_count = $1 WHERE id = $2`, rec.Actual, jobID); err != nil {
			return nil, fmt.Errorf("failed to update bid count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reconciliation: %w", err)
	}

	return rec, nil
}

// CountBidsByJob returns how many bids reference the job
func (s *Storage) CountBidsByJob(ctx context.Context, jobID string) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM bids WHERE job_id = $1`, jobID); err != nil {
		return 0, fmt.Errorf("failed to count bids: %w", err)
	}
	return count, nil
}
