package ratelimit

import (
	"context"
	"time"
)

// CounterStore is the shared fixed-window counter state. Implementations must
// be safe for concurrent use and the increment must be atomic: two concurrent
// requests for the same key must observe distinct counts.
type CounterStore interface {
	// ReadAndIncrement increments the counter for key within its current
	// window and returns the post-increment count and the window start.
	// When the window has elapsed the counter resets to 1 with a new start.
	ReadAndIncrement(ctx context.Context, key string, window time.Duration) (count int64, windowStart time.Time, err error)
}
