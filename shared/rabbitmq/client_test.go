package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/istiaq-ahsan/soloSphere-server/shared/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChannel fails every publish to failKey and records the rest
type fakeChannel struct {
	failKey  string
	failures chan struct{}

	mu        sync.Mutex
	published []string
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, _ amqp.Publishing) error {
	if key == f.failKey {
		select {
		case f.failures <- struct{}{}:
		default:
		}
		return errors.New("channel flow control")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, key)
	return nil
}

func newTestClient(ch channelPublisher, cfg *Config) *Client {
	return &Client{
		config:      cfg,
		publisher:   ch,
		logger:      logger.NewDiscard().Logger,
		isConnected: true,
	}
}

func TestClient_PublishWithRetry(t *testing.T) {
	ch := &fakeChannel{failKey: "bid.placed", failures: make(chan struct{}, 1)}
	client := newTestClient(ch, &Config{ExchangeName: "marketplace_events"})

	require.NoError(t, client.PublishWithRetry(context.Background(), "job.deleted", []byte(`{}`), "application/json"))
	assert.Equal(t, []string{"job.deleted"}, ch.published)
}

func TestClient_PublishWithRetry_GivesUp(t *testing.T) {
	ch := &fakeChannel{failKey: "bid.placed", failures: make(chan struct{}, 1)}
	client := newTestClient(ch, &Config{
		PublishRetries:    2,
		PublishRetryDelay: time.Millisecond,
	})

	err := client.PublishWithRetry(context.Background(), "bid.placed", []byte(`{}`), "application/json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestClient_PublishWithRetry_NotConnected(t *testing.T) {
	client := newTestClient(&fakeChannel{}, &Config{})
	client.isConnected = false

	err := client.PublishWithRetry(context.Background(), "bid.placed", nil, "application/json")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestClient_PublishWithRetry_BackoffDoesNotBlockOthers(t *testing.T) {
	ch := &fakeChannel{failKey: "bid.placed", failures: make(chan struct{}, 1)}
	client := newTestClient(ch, &Config{
		PublishRetries:     2,
		PublishRetryDelay:  500 * time.Millisecond,
		PublishBackoffMult: 2,
	})

	slowDone := make(chan error, 1)
	go func() {
		slowDone <- client.PublishWithRetry(context.Background(), "bid.placed", []byte(`{}`), "application/json")
	}()

	// first attempt failed, the slow caller is now sleeping before its retry
	select {
	case <-ch.failures:
	case <-time.After(5 * time.Second):
		t.Fatal("slow publish never attempted")
	}

	start := time.Now()
	require.NoError(t, client.PublishWithRetry(context.Background(), "job.deleted", []byte(`{}`), "application/json"))
	assert.Less(t, time.Since(start), 250*time.Millisecond)

	select {
	case <-slowDone:
		t.Fatal("slow publish finished before its backoff elapsed")
	default:
	}

	assert.Error(t, <-slowDone)
}
