package core

import (
	"context"
	"time"
)

// TimeProvider abstracts time operations for the domain so that expiry,
// retention and polling decisions stay testable with a controlled clock.
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(d time.Duration)
	After(d time.Duration) <-chan time.Time
	WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc)
}
