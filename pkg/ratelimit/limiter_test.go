package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() Config {
	return Config{
		Read:    EndpointRateConfig{MaxRequests: 3, Window: time.Minute},
		Write:   EndpointRateConfig{MaxRequests: 2, Window: time.Minute},
		Billing: EndpointRateConfig{MaxRequests: 1, Window: time.Minute},
	}
}

func TestCheckDecrementsRemaining(t *testing.T) {
	limiter := NewLimiter(NewMemoryCounterStore(), smallConfig())
	ctx := context.Background()

	info, err := limiter.Check(ctx, http.MethodGet, "/records", "org-1")
	require.NoError(t, err)
	assert.Equal(t, 3, info.Limit)
	assert.Equal(t, 2, info.Remaining)
	assert.False(t, info.Limited())

	info, err = limiter.Check(ctx, http.MethodGet, "/records", "org-1")
	require.NoError(t, err)
	assert.Equal(t, 1, info.Remaining)
	assert.False(t, info.Limited())
}

func TestCheckExhaustion(t *testing.T) {
	limiter := NewLimiter(NewMemoryCounterStore(), smallConfig())
	ctx := context.Background()

	// The request that drives remaining to zero is itself refused.
	var info Info
	var err error
	for i := 0; i < 3; i++ {
		info, err = limiter.Check(ctx, http.MethodGet, "/records", "org-1")
		require.NoError(t, err)
	}

	assert.Equal(t, 0, info.Remaining)
	assert.True(t, info.Limited())
	assert.GreaterOrEqual(t, info.RetryAfter, 1)
	assert.LessOrEqual(t, info.RetryAfter, 60)
}

func TestCheckTenantIsolation(t *testing.T) {
	limiter := NewLimiter(NewMemoryCounterStore(), smallConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.Check(ctx, http.MethodGet, "/records", "org-1")
		require.NoError(t, err)
	}

	info, err := limiter.Check(ctx, http.MethodGet, "/records", "org-2")
	require.NoError(t, err)
	assert.False(t, info.Limited(), "another tenant's traffic must not consume org-2's budget")
}

func TestCheckClassIsolation(t *testing.T) {
	limiter := NewLimiter(NewMemoryCounterStore(), smallConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.Check(ctx, http.MethodGet, "/records", "org-1")
		require.NoError(t, err)
	}

	info, err := limiter.Check(ctx, http.MethodPost, "/records", "org-1")
	require.NoError(t, err)
	assert.False(t, info.Limited(), "read traffic must not consume the write budget")
}

func TestCheckWindowReset(t *testing.T) {
	store := NewMemoryCounterStore()
	current := time.Now()
	store.now = func() time.Time { return current }

	limiter := NewLimiter(store, smallConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.Check(ctx, http.MethodGet, "/records", "org-1")
		require.NoError(t, err)
	}

	current = current.Add(61 * time.Second)

	info, err := limiter.Check(ctx, http.MethodGet, "/records", "org-1")
	require.NoError(t, err)
	assert.Equal(t, 2, info.Remaining)
	assert.False(t, info.Limited())
}

type failingCounterStore struct{}

func (failingCounterStore) ReadAndIncrement(context.Context, string, time.Duration) (int64, time.Time, error) {
	return 0, time.Time{}, errors.New("store unavailable")
}

func TestCheckStoreError(t *testing.T) {
	limiter := NewLimiter(failingCounterStore{}, smallConfig())

	_, err := limiter.Check(context.Background(), http.MethodGet, "/records", "org-1")
	assert.Error(t, err)
}

func TestInfoHeaders(t *testing.T) {
	headers := Info{Limit: 100, Remaining: 42}.Headers()

	assert.Equal(t, "100", headers["X-RateLimit-Limit"])
	assert.Equal(t, "42", headers["X-RateLimit-Remaining"])
	assert.NotContains(t, headers, "Retry-After")
}

func TestInfoHeadersExhausted(t *testing.T) {
	headers := Info{Limit: 100, Remaining: 0, RetryAfter: 30}.Headers()

	assert.Equal(t, "0", headers["X-RateLimit-Remaining"])
	assert.Equal(t, "30", headers["Retry-After"])
}

func TestInfoSetHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	Info{Limit: 100, Remaining: 5}.SetHeaders(w)

	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Remaining"))
	assert.Empty(t, w.Header().Get("Retry-After"))
}

func TestInfoLimited(t *testing.T) {
	assert.True(t, Info{Remaining: 0}.Limited())
	assert.False(t, Info{Remaining: 1}.Limited())
}
