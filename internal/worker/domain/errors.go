package domain

import "errors"

var (
	// ErrJobNotFound is returned when the job an event refers to no longer exists
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidEvent is returned when an event is missing the fields its type requires
	ErrInvalidEvent = errors.New("invalid event")

	// ErrUnknownEvent is returned for event types the worker does not handle
	ErrUnknownEvent = errors.New("unknown event type")
)

// RetryableError wraps transient errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
