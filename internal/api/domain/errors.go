package domain

import "errors"

var (
	// ErrJobNotFound is returned when a job id matches no record
	ErrJobNotFound = errors.New("job not found")

	// ErrBidNotFound is returned when a bid id matches no record
	ErrBidNotFound = errors.New("bid not found")

	// ErrDuplicateBid is returned when the bidder already bid on the job
	ErrDuplicateBid = errors.New("you have already bid this job")

	// ErrUnauthorized is returned for a missing, malformed or expired session
	ErrUnauthorized = errors.New("unauthorized access")

	// ErrForbidden is returned when the session identity does not own the resource.
	// It also matches ErrUnauthorized under errors.Is.
	ErrForbidden error = &forbiddenError{}

	// ErrValidation is returned for malformed input
	ErrValidation = errors.New("invalid request")
)

type forbiddenError struct{}

func (e *forbiddenError) Error() string { return "forbidden access: identity mismatch" }

func (e *forbiddenError) Unwrap() error { return ErrUnauthorized }
