// Package events defines the marketplace domain events exchanged between the
// API service and the worker service over RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types, also used as routing keys
const (
	TypeBidPlaced        = "bid.placed"
	TypeBidStatusUpdated = "bid.status_updated"
	TypeJobDeleted       = "job.deleted"
)

const contentTypeJSON = "application/json"

// Event is a fact that happened after a successful write
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	JobID      string    `json:"job_id,omitempty"`
	BidID      string    `json:"bid_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New stamps a fresh event of the given type
func New(eventType string) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
	}
}

// Decode parses a message body into an Event
func Decode(body []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	if evt.Type == "" {
		return Event{}, fmt.Errorf("failed to decode event: missing type")
	}
	return evt, nil
}

// Broker is the transport the publisher writes to
type Broker interface {
	PublishWithRetry(ctx context.Context, routingKey string, body []byte, contentType string) error
}

// Publisher encodes events and hands them to a broker
type Publisher struct {
	broker Broker
}

func NewPublisher(broker Broker) *Publisher {
	return &Publisher{broker: broker}
}

// Publish sends evt with its type as routing key
func (p *Publisher) Publish(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := p.broker.PublishWithRetry(ctx, evt.Type, body, contentTypeJSON); err != nil {
		return fmt.Errorf("failed to publish %s: %w", evt.Type, err)
	}

	return nil
}
