package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/istiaq-ahsan/soloSphere-server/internal/api/domain"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/model"
	"github.com/lib/pq"
)

const bidColumns = `id, job_id, email, price, comment, deadline, title, category,
	buyer_email, buyer_name, buyer_photo, status, created_at`

// uniqueViolation is the PostgreSQL error code for unique constraint failures
const uniqueViolation = "23505"

// PlaceBid inserts the bid and increments the job's bid counter in one
// transaction. The job row is locked for the duration so concurrent bids on
// the same job serialize; the (email, job_id) unique index backs the
// duplicate check. Buyer, title and category are copied from the job.
func (s *Storage) PlaceBid(ctx context.Context, bid *model.Bid) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var job model.Job
	err = tx.GetContext(ctx, &job, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, bid.JobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrJobNotFound
		}
		return fmt.Errorf("failed to lock job: %w", err)
	}

	var exists bool
	err = tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM bids WHERE email = $1 AND job_id = $2)`, bid.Email, bid.JobID)
	if err != nil {
		return fmt.Errorf("failed to check existing bid: %w", err)
	}
	if exists {
		s.logger.Warn("Duplicate bid rejected",
			slog.String("job_id", bid.JobID),
			slog.String("email", bid.Email),
		)
		return domain.ErrDuplicateBid
	}

	bid.Title = job.Title
	bid.Category = job.Category
	bid.BuyerEmail = job.BuyerEmail
	bid.BuyerName = job.BuyerName
	bid.BuyerPhoto = job.BuyerPhoto

	query := `
		INSERT INTO bids (
			id, job_id, email, price, comment, deadline, title, category,
			buyer_email, buyer_name, buyer_photo, status, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13
		)
	`
	_, err = tx.ExecContext(
		ctx,
		query,
		bid.ID,
		bid.JobID,
		bid.Email,
		bid.Price,
		bid.Comment,
		bid.Deadline,
		bid.Title,
		bid.Category,
		bid.BuyerEmail,
		bid.BuyerName,
		bid.BuyerPhoto,
		bid.Status,
		bid.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBid
		}
		return fmt.Errorf("failed to insert bid: %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE jobs SET bid_count = bid_count + 1, updated_at = NOW() WHERE id = $1`, bid.JobID)
	if err != nil {
		return fmt.Errorf("failed to increment bid count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBid
		}
		return fmt.Errorf("failed to commit bid: %w", err)
	}

	return nil
}

type BidFilter struct {
	Email      string // bidder
	BuyerEmail string // job owner
}

func (s *Storage) ListBids(ctx context.Context, filter BidFilter) ([]model.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Email != "" {
		query += fmt.Sprintf(" AND email = $%d", argIdx)
		args = append(args, filter.Email)
		argIdx++
	}

	if filter.BuyerEmail != "" {
		query += fmt.Sprintf(" AND buyer_email = $%d", argIdx)
		args = append(args, filter.BuyerEmail)
	}

	query += " ORDER BY created_at DESC, id DESC"

	var bids []model.Bid
	err := s.db.SelectContext(ctx, &bids, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}

	return bids, nil
}

// UpdateBidStatus replaces the bid status unconditionally.
func (s *Storage) UpdateBidStatus(ctx context.Context, bidID, status string) (*model.Bid, error) {
	query := `UPDATE bids SET status = $1 WHERE id = $2 RETURNING ` + bidColumns

	var bid model.Bid
	err := s.db.GetContext(ctx, &bid, query, status, bidID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBidNotFound
		}
		return nil, fmt.Errorf("failed to update bid status: %w", err)
	}

	return &bid, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
