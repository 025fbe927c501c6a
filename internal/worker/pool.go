package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/istiaq-ahsan/soloSphere-server/internal/worker/domain"
)

// spawnWorkerPool spawns N worker goroutines based on concurrency configuration
func (w *Worker) spawnWorkerPool(ctx context.Context) {
	w.logger.Info("Spawning worker pool",
		slog.Int("concurrency", w.concurrency),
		slog.String("worker_id", w.workerID),
	)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.workerLoop(ctx, i)
	}
}

// workerLoop handles tasks until the dispatcher closes the task channel.
// Tasks still buffered after cancellation go back to the broker.
func (w *Worker) workerLoop(ctx context.Context, workerNum int) {
	defer w.wg.Done()

	workerName := fmt.Sprintf("%s-%d", w.workerID, workerNum)
	w.logger.Debug("Worker goroutine started",
		slog.String("worker_name", workerName),
	)

	for t := range w.tasks {
		if ctx.Err() != nil {
			if nackErr := t.delivery.Nack(false, true); nackErr != nil {
				w.logger.Error("Failed to NACK message on shutdown",
					slog.String("worker_name", workerName),
					slog.String("event_id", t.event.ID),
					slog.String("error", nackErr.Error()),
				)
			}
			continue
		}

		w.handleTask(ctx, workerName, t)
	}

	w.logger.Debug("Worker goroutine stopped",
		slog.String("worker_name", workerName),
	)
}

func (w *Worker) handleTask(ctx context.Context, workerName string, t task) {
	err := w.processEvent(ctx, t.event)
	if err == nil {
		w.processed.Add(1)
		if ackErr := t.delivery.Ack(false); ackErr != nil {
			w.logger.Error("Failed to ACK message",
				slog.String("worker_name", workerName),
				slog.String("event_id", t.event.ID),
				slog.String("error", ackErr.Error()),
			)
		}
		return
	}

	w.failed.Add(1)
	requeue := shouldRequeue(err, t.delivery.Redelivered)

	w.logger.Error("Event processing failed",
		slog.String("worker_name", workerName),
		slog.String("event_id", t.event.ID),
		slog.String("type", t.event.Type),
		slog.Bool("redelivered", t.delivery.Redelivered),
		slog.Bool("requeue", requeue),
		slog.String("error", err.Error()),
	)

	if nackErr := t.delivery.Nack(false, requeue); nackErr != nil {
		w.logger.Error("Failed to NACK message",
			slog.String("worker_name", workerName),
			slog.String("event_id", t.event.ID),
			slog.String("error", nackErr.Error()),
		)
	}
}

// shouldRequeue allows one more attempt for transient errors. A message that
// already came back once is dropped.
func shouldRequeue(err error, redelivered bool) bool {
	if redelivered {
		return false
	}

	var retryableErr *domain.RetryableError
	return errors.As(err, &retryableErr)
}
