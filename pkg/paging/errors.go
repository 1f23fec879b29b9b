package paging

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession if the user has no usable session.
	ErrNoSession = errors.New("no session available for user")

	// ErrSuperseded if the request was abandoned because its session was
	// replaced by a session for a different query, or by a newer request.
	ErrSuperseded = errors.New("request superseded")

	// ErrTerminated if the owning user terminated the session while the
	// request was pending.
	ErrTerminated = errors.New("session terminated")

	// ErrClosed if the coordinator has been closed.
	ErrClosed = errors.New("coordinator closed")

	ErrInvalidPage = errors.New("invalid page to load")
)

// UpstreamError wraps a failure reported by the live paginator, either as an
// Error update or as a failure to create or drive the paginator.
type UpstreamError struct {
	Cause error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream paginator error: %v", e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

func upstreamError(err error) error {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamError{Cause: err}
}

func isUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
