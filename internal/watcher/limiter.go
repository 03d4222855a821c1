// # internal/watcher/limiter.go
package watcher

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter to cap how often watch mode re-analyzes
// the project, regardless of how fast change events arrive.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter creates a token bucket allowing r runs per second with
// burst size b.
func NewLimiter(r float64, b int) *Limiter {
	return &Limiter{
		inner: rate.NewLimiter(rate.Limit(r), b),
	}
}

// Allow reports whether a run may start now.
func (l *Limiter) Allow() bool {
	return l.inner.AllowN(time.Now(), 1)
}

// Wait blocks until a run is permitted.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.inner.Wait(ctx)
}
