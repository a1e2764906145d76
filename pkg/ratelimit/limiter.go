package ratelimit

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"
)

// Info is the outcome of one rate-limit check, derived from the shared
// counter and returned to the caller for response headers.
type Info struct {
	Limit     int
	Remaining int
	Reset     time.Time
	// RetryAfter is seconds until the window resets; zero unless exhausted
	RetryAfter int
}

// Limited reports whether the request that produced this Info must be refused
func (i Info) Limited() bool {
	return i.Remaining <= 0
}

// Headers returns the rate-limit response headers. Retry-After is present
// only when the limit is exhausted.
func (i Info) Headers() map[string]string {
	headers := map[string]string{
		"X-RateLimit-Limit":     fmt.Sprintf("%d", i.Limit),
		"X-RateLimit-Remaining": fmt.Sprintf("%d", i.Remaining),
	}
	if i.RetryAfter > 0 {
		headers["Retry-After"] = fmt.Sprintf("%d", i.RetryAfter)
	}
	return headers
}

// SetHeaders writes the rate-limit headers onto a response
func (i Info) SetHeaders(w http.ResponseWriter) {
	for key, value := range i.Headers() {
		w.Header().Set(key, value)
	}
}

// Limiter checks requests against per-tenant, per-endpoint-class ceilings
type Limiter struct {
	store  CounterStore
	config Config
}

// NewLimiter creates a limiter over the given counter store
func NewLimiter(store CounterStore, config Config) *Limiter {
	return &Limiter{store: store, config: config}
}

// Config returns the limiter's endpoint ceilings
func (l *Limiter) Config() Config {
	return l.config
}

// Check counts the request against the (tenant, endpoint class) counter and
// returns the resulting limit state. The counter is incremented even for the
// request that exceeds the ceiling; the window reset is what forgives it.
func (l *Limiter) Check(ctx context.Context, method, path, orgID string) (Info, error) {
	class := ClassifyEndpoint(method, path)
	cfg := l.config.ForClass(class)

	key := fmt.Sprintf("%s:%s", orgID, class)
	count, windowStart, err := l.store.ReadAndIncrement(ctx, key, cfg.Window)
	if err != nil {
		return Info{}, fmt.Errorf("rate limit check for %q: %w", key, err)
	}

	reset := windowStart.Add(cfg.Window)
	info := Info{
		Limit:     cfg.MaxRequests,
		Remaining: cfg.MaxRequests - int(count),
		Reset:     reset,
	}
	if info.Remaining < 0 {
		info.Remaining = 0
	}

	if info.Limited() {
		secs := int(math.Ceil(time.Until(reset).Seconds()))
		if secs < 1 {
			secs = 1
		}
		info.RetryAfter = secs
	}

	return info, nil
}
