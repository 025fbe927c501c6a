// Package service holds the job catalog and the bid ledger. Both sit between
// the HTTP handlers and the sqlx storage and publish domain events after a
// successful write.
package service

import (
	"context"
	"log/slog"

	"github.com/istiaq-ahsan/soloSphere-server/internal/api/domain"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/model"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/storage"
	"github.com/istiaq-ahsan/soloSphere-server/shared/events"
)

// MaxPageSize caps the page size accepted by job search
const MaxPageSize = 100

// JobRepository is implemented by *storage.Storage
type JobRepository interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJobByID(ctx context.Context, jobID string) (*model.Job, error)
	ListJobs(ctx context.Context, filter storage.JobFilter) ([]model.Job, error)
	CountJobs(ctx context.Context, filter storage.JobFilter) (int, error)
	UpsertJob(ctx context.Context, jobID string, patch domain.JobPatch) (*model.Job, error)
	DeleteJob(ctx context.Context, jobID string) (int64, error)
}

// BidRepository is implemented by *storage.Storage
type BidRepository interface {
	PlaceBid(ctx context.Context, bid *model.Bid) error
	ListBids(ctx context.Context, filter storage.BidFilter) ([]model.Bid, error)
	UpdateBidStatus(ctx context.Context, bidID, status string) (*model.Bid, error)
}

// EventPublisher is implemented by *events.Publisher
type EventPublisher interface {
	Publish(ctx context.Context, evt events.Event) error
}

// publish sends evt when a publisher is configured. Failures are logged only:
// the write it reports has already been committed.
func publish(ctx context.Context, pub EventPublisher, logger *slog.Logger, evt events.Event) {
	if pub == nil {
		return
	}

	if err := pub.Publish(ctx, evt); err != nil {
		logger.Error("Failed to publish event",
			slog.String("event_id", evt.ID),
			slog.String("type", evt.Type),
			slog.String("error", err.Error()),
		)
	}
}
