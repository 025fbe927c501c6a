package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/istiaq-ahsan/soloSphere-server/internal/worker/domain"
	"github.com/istiaq-ahsan/soloSphere-server/shared/events"
	"github.com/istiaq-ahsan/soloSphere-server/shared/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testJobID = "5b2f6c1e-8f0a-4c7e-9a51-3d1d2f1c9e01"

type MockStore struct {
	mock.Mock
}

func (m *MockStore) ReconcileBidCount(ctx context.Context, jobID string) (*domain.Reconciliation, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

func (m *MockStore) CountBidsByJob(ctx context.Context, jobID string) (int, error) {
	args := m.Called(ctx, jobID)
	return args.Int(0), args.Error(1)
}

type fakeConsumer struct {
	deliveries chan amqp.Delivery
	err        error
}

func (f *fakeConsumer) Consume(string) (<-chan amqp.Delivery, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.deliveries, nil
}

// outcome is what the worker told the broker about one delivery
type outcome struct {
	acked   bool
	requeue bool
}

type fakeAcknowledger struct {
	mu       sync.Mutex
	outcomes map[uint64]outcome
}

func newFakeAcknowledger() *fakeAcknowledger {
	return &fakeAcknowledger{outcomes: make(map[uint64]outcome)}
}

func (f *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes[tag] = outcome{acked: true}
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes[tag] = outcome{requeue: requeue}
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func (f *fakeAcknowledger) outcome(t *testing.T, tag uint64) outcome {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.outcomes[tag]
	require.True(t, ok, "delivery %d was neither acked nor nacked", tag)
	return o
}

func eventBody(t *testing.T, eventType, jobID string) []byte {
	t.Helper()
	evt := events.New(eventType)
	evt.JobID = jobID
	body, err := json.Marshal(evt)
	require.NoError(t, err)
	return body
}

// runWorker feeds the deliveries through a worker and returns once every one
// has been settled
func runWorker(t *testing.T, store Store, deliveries ...amqp.Delivery) *Worker {
	t.Helper()

	ch := make(chan amqp.Delivery, len(deliveries))
	for _, d := range deliveries {
		ch <- d
	}
	close(ch)

	w := NewWorker(&Config{
		Logger:      logger.NewDiscard().Logger,
		Store:       store,
		Consumer:    &fakeConsumer{deliveries: ch},
		WorkerID:    "test-worker",
		Concurrency: 2,
		BufferSize:  4,
		TaskTimeout: time.Second,
	})
	require.NoError(t, w.Start(context.Background()))
	return w
}

func TestWorker_BidPlaced(t *testing.T) {
	tests := []struct {
		name        string
		rec         *domain.Reconciliation
		err         error
		redelivered bool
		want        outcome
		wantDrift   int64
		wantFailed  int64
	}{
		{
			name: "counter in sync",
			rec:  &domain.Reconciliation{JobID: testJobID, Previous: 2, Actual: 2},
			want: outcome{acked: true},
		},
		{
			name:      "drift corrected",
			rec:       &domain.Reconciliation{JobID: testJobID, Previous: 3, Actual: 1},
			want:      outcome{acked: true},
			wantDrift: 1,
		},
		{
			name: "job already deleted",
			err:  domain.ErrJobNotFound,
			want: outcome{acked: true},
		},
		{
			name:       "transient failure is requeued",
			err:        errors.New("connection reset"),
			want:       outcome{requeue: true},
			wantFailed: 1,
		},
		{
			name:        "transient failure on redelivery is dropped",
			err:         errors.New("connection reset"),
			redelivered: true,
			want:        outcome{requeue: false},
			wantFailed:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			store.On("ReconcileBidCount", mock.Anything, testJobID).Return(tt.rec, tt.err).Once()

			ack := newFakeAcknowledger()
			w := runWorker(t, store, amqp.Delivery{
				Acknowledger: ack,
				DeliveryTag:  1,
				Redelivered:  tt.redelivered,
				Body:         eventBody(t, events.TypeBidPlaced, testJobID),
			})

			assert.Equal(t, tt.want, ack.outcome(t, 1))
			assert.Equal(t, tt.wantDrift, w.Stats().DriftCorrected)
			assert.Equal(t, tt.wantFailed, w.Stats().Failed)
			store.AssertExpectations(t)
		})
	}
}

func TestWorker_JobDeleted(t *testing.T) {
	store := new(MockStore)
	store.On("CountBidsByJob", mock.Anything, testJobID).Return(3, nil).Once()

	ack := newFakeAcknowledger()
	w := runWorker(t, store, amqp.Delivery{
		Acknowledger: ack,
		DeliveryTag:  7,
		Body:         eventBody(t, events.TypeJobDeleted, testJobID),
	})

	assert.Equal(t, outcome{acked: true}, ack.outcome(t, 7))
	assert.Equal(t, int64(1), w.Stats().Processed)
	store.AssertExpectations(t)
}

func TestWorker_JobDeleted_CountFails(t *testing.T) {
	store := new(MockStore)
	store.On("CountBidsByJob", mock.Anything, testJobID).Return(0, errors.New("timeout")).Once()

	ack := newFakeAcknowledger()
	runWorker(t, store, amqp.Delivery{
		Acknowledger: ack,
		DeliveryTag:  1,
		Body:         eventBody(t, events.TypeJobDeleted, testJobID),
	})

	assert.Equal(t, outcome{requeue: true}, ack.outcome(t, 1))
}

func TestWorker_RejectsWithoutRequeue(t *testing.T) {
	store := new(MockStore)
	ack := newFakeAcknowledger()

	w := runWorker(t, store,
		amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte("{not json")},
		amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte(`{"id":"x"}`)},
		amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: eventBody(t, "job.archived", testJobID)},
		amqp.Delivery{Acknowledger: ack, DeliveryTag: 4, Body: eventBody(t, events.TypeBidPlaced, "not-a-uuid")},
	)

	for tag := uint64(1); tag <= 4; tag++ {
		assert.Equal(t, outcome{requeue: false}, ack.outcome(t, tag), "delivery %d", tag)
	}

	stats := w.Stats()
	assert.Equal(t, int64(2), stats.Rejected, "undecodable bodies")
	assert.Equal(t, int64(2), stats.Failed, "unknown type and bad job id")
	store.AssertNotCalled(t, "ReconcileBidCount", mock.Anything, mock.Anything)
}

func TestWorker_StatusUpdateIsAcked(t *testing.T) {
	store := new(MockStore)
	ack := newFakeAcknowledger()

	evt := events.New(events.TypeBidStatusUpdated)
	evt.BidID = "0c7a3b52-1e44-4b8e-8a3f-6f0e2d9b7a10"
	evt.Status = "Rejected"
	body, err := json.Marshal(evt)
	require.NoError(t, err)

	w := runWorker(t, store, amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body})

	assert.Equal(t, outcome{acked: true}, ack.outcome(t, 1))
	assert.Equal(t, int64(1), w.Stats().Processed)
	store.AssertExpectations(t)
}

func TestWorker_ConsumeError(t *testing.T) {
	w := NewWorker(&Config{
		Logger:   logger.NewDiscard().Logger,
		Store:    new(MockStore),
		Consumer: &fakeConsumer{err: errors.New("channel closed")},
	})

	err := w.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start consuming")
}

func TestWorker_StopsOnCancel(t *testing.T) {
	w := NewWorker(&Config{
		Logger:      logger.NewDiscard().Logger,
		Store:       new(MockStore),
		Consumer:    &fakeConsumer{deliveries: make(chan amqp.Delivery)},
		Concurrency: 2,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestShouldRequeue(t *testing.T) {
	retryable := domain.NewRetryableError(errors.New("timeout"))

	assert.True(t, shouldRequeue(retryable, false))
	assert.False(t, shouldRequeue(retryable, true))
	assert.False(t, shouldRequeue(domain.ErrInvalidEvent, false))
	assert.False(t, shouldRequeue(errors.New("boom"), false))
}
