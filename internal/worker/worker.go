// Package worker reconciles job bid counters from the marketplace event
// stream. Deliveries are decoded by a single dispatcher and fanned out to a
// fixed pool of goroutines; every message is acked or nacked manually.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/istiaq-ahsan/soloSphere-server/internal/worker/domain"
	"github.com/istiaq-ahsan/soloSphere-server/shared/events"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Store is the persistence the worker reconciles against
type Store interface {
	ReconcileBidCount(ctx context.Context, jobID string) (*domain.Reconciliation, error)
	CountBidsByJob(ctx context.Context, jobID string) (int, error)
}

// Consumer opens a manual-ack delivery stream
type Consumer interface {
	Consume(consumerTag string) (<-chan amqp.Delivery, error)
}

// Config holds worker configuration
type Config struct {
	Logger      *slog.Logger
	Store       Store
	Consumer    Consumer
	WorkerID    string
	Concurrency int
	BufferSize  int
	TaskTimeout time.Duration
}

// Stats is a snapshot of what the worker has done since start
type Stats struct {
	Processed      int64
	Failed         int64
	Rejected       int64
	DriftCorrected int64
}

// task is one decoded event waiting for a pool goroutine
type task struct {
	event    events.Event
	delivery amqp.Delivery
}

// Worker represents the background reconciliation worker
type Worker struct {
	logger      *slog.Logger
	store       Store
	consumer    Consumer
	workerID    string
	concurrency int
	taskTimeout time.Duration
	tasks       chan task
	wg          sync.WaitGroup

	processed      atomic.Int64
	failed         atomic.Int64
	rejected       atomic.Int64
	driftCorrected atomic.Int64
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Worker{
		logger:      cfg.Logger,
		store:       cfg.Store,
		consumer:    cfg.Consumer,
		workerID:    cfg.WorkerID,
		concurrency: concurrency,
		taskTimeout: cfg.TaskTimeout,
		tasks:       make(chan task, cfg.BufferSize),
	}
}

// Start consumes the queue until ctx is canceled or the broker closes the
// delivery channel, then waits for the pool to drain
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("task_timeout", w.taskTimeout),
	)

	deliveries, err := w.consumer.Consume(w.workerID)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	close(w.tasks)
	w.wg.Wait()

	stats := w.Stats()
	w.logger.Info("Worker stopped",
		slog.String("worker_id", w.workerID),
		slog.Int64("processed", stats.Processed),
		slog.Int64("failed", stats.Failed),
		slog.Int64("rejected", stats.Rejected),
		slog.Int64("drift_corrected", stats.DriftCorrected),
	)

	return nil
}

// Stats returns the current counters
func (w *Worker) Stats() Stats {
	return Stats{
		Processed:      w.processed.Load(),
		Failed:         w.failed.Load(),
		Rejected:       w.rejected.Load(),
		DriftCorrected: w.driftCorrected.Load(),
	}
}
