package worker

import (
	"context"
	"log/slog"

	"github.com/istiaq-ahsan/soloSphere-server/shared/events"
	amqp "github.com/rabbitmq/amqp091-go"
)

// startMessageDispatcher decodes deliveries and hands them to the pool. It
// returns when ctx is canceled or the delivery channel is closed.
func (w *Worker) startMessageDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) {
	w.logger.Info("Message dispatcher started",
		slog.String("worker_id", w.workerID),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Message dispatcher stopped - context canceled")
			return

		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn("RabbitMQ delivery channel closed")
				return
			}

			evt, err := events.Decode(delivery.Body)
			if err != nil {
				w.logger.Error("Failed to decode event",
					slog.String("error", err.Error()),
					slog.String("body", string(delivery.Body)),
				)
				w.rejected.Add(1)
				// malformed messages are dropped, requeueing would loop forever
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					w.logger.Error("Failed to NACK malformed message",
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			select {
			case w.tasks <- task{event: evt, delivery: delivery}:
				w.logger.Debug("Event dispatched to worker pool",
					slog.String("event_id", evt.ID),
					slog.String("type", evt.Type),
					slog.Uint64("delivery_tag", delivery.DeliveryTag),
				)
			case <-ctx.Done():
				w.logger.Info("Message dispatcher stopped while dispatching event")
				if nackErr := delivery.Nack(false, true); nackErr != nil {
					w.logger.Error("Failed to NACK message on shutdown",
						slog.String("error", nackErr.Error()),
					)
				}
				return
			}
		}
	}
}
