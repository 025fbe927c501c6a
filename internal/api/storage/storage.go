package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/istiaq-ahsan/soloSphere-server/internal/api/domain"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/model"
	"github.com/jmoiron/sqlx"
)

const jobColumns = `id, title, category, description, deadline, min_price, max_price,
	buyer_email, buyer_name, buyer_photo, bid_count, created_at, updated_at`

type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

func (s *Storage) CreateJob(ctx context.Context, job *model.Job) error {
	query := `
		INSERT INTO jobs (
			id, title, category, description, deadline, min_price, max_price,
			buyer_email, buyer_name, buyer_photo, bid_count, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.Title,
		job.Category,
		job.Description,
		job.Deadline,
		job.MinPrice,
		job.MaxPrice,
		job.BuyerEmail,
		job.BuyerName,
		job.BuyerPhoto,
		job.BidCount,
		job.CreatedAt,
		job.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

func (s *Storage) GetJobByID(ctx context.Context, jobID string) (*model.Job, error) {
	var job model.Job
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	err := s.db.GetContext(ctx, &job, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

type JobFilter struct {
	BuyerEmail string
	Category   string
	Search     string
	Sort       string // asc or desc by deadline; empty keeps newest first
	Limit      int
	Offset     int
}

// likeEscaper escapes LIKE metacharacters so search is a plain substring match
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f JobFilter) where() (string, []interface{}) {
	clause := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if f.BuyerEmail != "" {
		clause += fmt.Sprintf(" AND buyer_email = $%d", argIdx)
		args = append(args, f.BuyerEmail)
		argIdx++
	}

	if f.Category != "" {
		clause += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, f.Category)
		argIdx++
	}

	if f.Search != "" {
		clause += fmt.Sprintf(" AND title ILIKE $%d", argIdx)
		args = append(args, "%"+likeEscaper.Replace(f.Search)+"%")
	}

	return clause, args
}

func (s *Storage) ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, error) {
	where, args := filter.where()
	query := `SELECT ` + jobColumns + ` FROM jobs` + where

	switch filter.Sort {
	case domain.SortAsc:
		query += " ORDER BY deadline ASC NULLS LAST, id ASC"
	case domain.SortDesc:
		query += " ORDER BY deadline DESC NULLS LAST, id DESC"
	default:
		query += " ORDER BY created_at DESC, id DESC"
	}

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	var jobs []model.Job
	err := s.db.SelectContext(ctx, &jobs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

func (s *Storage) CountJobs(ctx context.Context, filter JobFilter) (int, error) {
	where, args := filter.where()

	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM jobs`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	return count, nil
}

// UpsertJob merges patch into the job with the given id, inserting the job
// when it does not exist yet. Unset patch fields keep their stored value.
func (s *Storage) UpsertJob(ctx context.Context, jobID string, patch domain.JobPatch) (*model.Job, error) {
	query := `
		INSERT INTO jobs (
			id, title, category, description, deadline, min_price, max_price,
			buyer_email, buyer_name, buyer_photo, bid_count, created_at, updated_at
		) VALUES (
			$1,
			COALESCE($2::text, ''),
			COALESCE($3::text, ''),
			COALESCE($4::text, ''),
			$5::timestamptz,
			COALESCE($6::double precision, 0),
			COALESCE($7::double precision, 0),
			COALESCE($8::text, ''),
			COALESCE($9::text, ''),
			COALESCE($10::text, ''),
			0, NOW(), NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			title = COALESCE($2::text, jobs.title),
			category = COALESCE($3::text, jobs.category),
			description = COALESCE($4::text, jobs.description),
			deadline = COALESCE($5::timestamptz, jobs.deadline),
			min_price = COALESCE($6::double precision, jobs.min_price),
			max_price = COALESCE($7::double precision, jobs.max_price),
			buyer_email = COALESCE($8::text, jobs.buyer_email),
			buyer_name = COALESCE($9::text, jobs.buyer_name),
			buyer_photo = COALESCE($10::text, jobs.buyer_photo),
			updated_at = NOW()
		RETURNING ` + jobColumns

	var job model.Job
	err := s.db.GetContext(
		ctx,
		&job,
		query,
		jobID,
		patch.Title,
		patch.Category,
		patch.Description,
		patch.Deadline,
		patch.MinPrice,
		patch.MaxPrice,
		patch.BuyerEmail,
		patch.BuyerName,
		patch.BuyerPhoto,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert job: %w", err)
	}

	return &job, nil
}

// DeleteJob removes the job physically. Bids pointing at it are kept.
func (s *Storage) DeleteJob(ctx context.Context, jobID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, jobID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete job: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
