package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/istiaq-ahsan/soloSphere-server/internal/worker/domain"
	"github.com/istiaq-ahsan/soloSphere-server/shared/events"
)

// processEvent routes one event to its handler
func (w *Worker) processEvent(ctx context.Context, evt events.Event) error {
	switch evt.Type {
	case events.TypeBidPlaced:
		return w.reconcileJob(ctx, evt)
	case events.TypeJobDeleted:
		return w.reportOrphanedBids(ctx, evt)
	case events.TypeBidStatusUpdated:
		w.logger.Debug("Bid status change observed",
			slog.String("bid_id", evt.BidID),
			slog.String("status", evt.Status),
		)
		return nil
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownEvent, evt.Type)
	}
}

func (w *Worker) taskContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.taskTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, w.taskTimeout)
}

func validJobID(evt events.Event) error {
	if _, err := uuid.Parse(evt.JobID); err != nil {
		return fmt.Errorf("%w: %s has invalid job_id %q", domain.ErrInvalidEvent, evt.Type, evt.JobID)
	}
	return nil
}

// reconcileJob recounts the bids of the job a bid was placed on
func (w *Worker) reconcileJob(ctx context.Context, evt events.Event) error {
	if err := validJobID(evt); err != nil {
		return err
	}

	taskCtx, cancel := w.taskContext(ctx)
	defer cancel()

	rec, err := w.store.ReconcileBidCount(taskCtx, evt.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			// deleted after the bid landed; nothing left to fix
			w.logger.Info("Job gone before reconciliation",
				slog.String("job_id", evt.JobID),
			)
			return nil
		}
		return domain.NewRetryableError(fmt.Errorf("failed to reconcile job %s: %w", evt.JobID, err))
	}

	if drift := rec.Drift(); drift != 0 {
		w.driftCorrected.Add(1)
		w.logger.Warn("Bid count drift corrected",
			slog.String("job_id", rec.JobID),
			slog.Int("previous", rec.Previous),
			slog.Int("actual", rec.Actual),
			slog.Int("drift", drift),
		)
		return nil
	}

	w.logger.Debug("Bid count in sync",
		slog.String("job_id", rec.JobID),
		slog.Int("bid_count", rec.Actual),
	)
	return nil
}

// reportOrphanedBids logs how many bids outlived their job
func (w *Worker) reportOrphanedBids(ctx context.Context, evt events.Event) error {
	if err := validJobID(evt); err != nil {
		return err
	}

	taskCtx, cancel := w.taskContext(ctx)
	defer cancel()

	count, err := w.store.CountBidsByJob(taskCtx, evt.JobID)
	if err != nil {
		return domain.NewRetryableError(fmt.Errorf("failed to count orphaned bids of %s: %w", evt.JobID, err))
	}

	w.logger.Info("Job deleted",
		slog.String("job_id", evt.JobID),
		slog.Int("orphaned_bids", count),
	)
	return nil
}
