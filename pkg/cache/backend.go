package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable marks a backing store that could not be reached.
var ErrUnavailable = errors.New("backend unavailable")

// ConnectAttempts is the number of pings [Connect] makes before giving up.
const ConnectAttempts = 3

// ConnectDelay is the wait after the first failed ping. It doubles after
// each further failure.
var ConnectDelay = time.Second

// UnavailableError reports the backend that failed to answer and its last
// ping error.
type UnavailableError struct {
	Backend string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Backend, e.Err)
}

func (e *UnavailableError) Unwrap() []error { return []error{ErrUnavailable, e.Err} }

// Connect pings a network backend until it answers, backing off between
// attempts. The Redis and MongoDB stores call it before first use. A
// cancelled ctx ends the wait with ctx.Err().
func Connect(ctx context.Context, backend string, ping func(context.Context) error) error {
	delay := ConnectDelay
	var last error
	for attempt := 1; attempt <= ConnectAttempts; attempt++ {
		if last = ping(ctx); last == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == ConnectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return &UnavailableError{Backend: backend, Err: last}
}
