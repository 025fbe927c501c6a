package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/domain"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/model"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/storage"
	"github.com/istiaq-ahsan/soloSphere-server/shared/events"
)

// Catalog owns job records
type Catalog struct {
	repo   JobRepository
	pub    EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

func NewCatalog(repo JobRepository, pub EventPublisher, logger *slog.Logger) *Catalog {
	return &Catalog{
		repo:   repo,
		pub:    pub,
		logger: logger,
		now:    time.Now,
	}
}

// CreateJob stores job under a fresh id. The bid counter always starts at zero.
func (c *Catalog) CreateJob(ctx context.Context, job domain.Job) (domain.Job, error) {
	now := c.now().UTC()
	job.ID = uuid.New().String()
	job.BidCount = 0
	job.CreatedAt = now
	job.UpdatedAt = now

	row := model.JobFromDomain(job)
	if err := c.repo.CreateJob(ctx, &row); err != nil {
		return domain.Job{}, err
	}

	c.logger.Info("Job created",
		slog.String("job_id", job.ID),
		slog.String("buyer_email", job.Buyer.Email),
	)

	return job, nil
}

// ListJobs returns every job, newest first
func (c *Catalog) ListJobs(ctx context.Context) ([]domain.Job, error) {
	rows, err := c.repo.ListJobs(ctx, storage.JobFilter{})
	if err != nil {
		return nil, err
	}
	return model.JobsToDomain(rows), nil
}

// ListJobsByOwner returns the jobs posted by email
func (c *Catalog) ListJobsByOwner(ctx context.Context, email string) ([]domain.Job, error) {
	rows, err := c.repo.ListJobs(ctx, storage.JobFilter{BuyerEmail: email})
	if err != nil {
		return nil, err
	}
	return model.JobsToDomain(rows), nil
}

func (c *Catalog) GetJob(ctx context.Context, id string) (domain.Job, error) {
	row, err := c.repo.GetJobByID(ctx, id)
	if err != nil {
		return domain.Job{}, err
	}
	return row.ToDomain(), nil
}

// UpdateJob merges patch into the job, creating it when id is unknown
func (c *Catalog) UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (domain.Job, error) {
	row, err := c.repo.UpsertJob(ctx, id, patch)
	if err != nil {
		return domain.Job{}, err
	}
	return row.ToDomain(), nil
}

// DeleteJob removes the job and reports how many records were deleted.
// Bids placed on the job are left in place.
func (c *Catalog) DeleteJob(ctx context.Context, id string) (int64, error) {
	deleted, err := c.repo.DeleteJob(ctx, id)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		c.logger.Info("Job deleted", slog.String("job_id", id))

		evt := events.New(events.TypeJobDeleted)
		evt.JobID = id
		publish(ctx, c.pub, c.logger, evt)
	}

	return deleted, nil
}

// SearchJobs filters by category, matches title case-insensitively and
// orders by deadline when query.Sort is set
func (c *Catalog) SearchJobs(ctx context.Context, query domain.JobQuery) ([]domain.Job, error) {
	filter, err := searchFilter(query)
	if err != nil {
		return nil, err
	}

	rows, err := c.repo.ListJobs(ctx, filter)
	if err != nil {
		return nil, err
	}
	return model.JobsToDomain(rows), nil
}

// CountJobs counts the jobs SearchJobs would match without pagination
func (c *Catalog) CountJobs(ctx context.Context, query domain.JobQuery) (int, error) {
	filter, err := searchFilter(domain.JobQuery{Category: query.Category, Search: query.Search})
	if err != nil {
		return 0, err
	}
	return c.repo.CountJobs(ctx, filter)
}

func searchFilter(query domain.JobQuery) (storage.JobFilter, error) {
	switch query.Sort {
	case "", domain.SortAsc, domain.SortDesc:
	default:
		return storage.JobFilter{}, fmt.Errorf("%w: sort must be %q or %q", domain.ErrValidation, domain.SortAsc, domain.SortDesc)
	}

	if query.Page < 0 || query.Size < 0 {
		return storage.JobFilter{}, fmt.Errorf("%w: page and size must not be negative", domain.ErrValidation)
	}

	filter := storage.JobFilter{
		Category: query.Category,
		Search:   query.Search,
		Sort:     query.Sort,
	}

	if query.Size > 0 {
		size := min(query.Size, MaxPageSize)
		page := max(query.Page, 1)
		filter.Limit = size
		filter.Offset = (page - 1) * size
	}

	return filter, nil
}
