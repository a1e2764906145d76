package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int64
}

// MemoryCounterStore is an in-process CounterStore for single-instance
// deployments and tests. State is lost on restart.
type MemoryCounterStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewMemoryCounterStore creates an empty in-memory counter store
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// ReadAndIncrement implements CounterStore
func (s *MemoryCounterStore) ReadAndIncrement(_ context.Context, key string, windowDur time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= windowDur {
		w = &window{start: now, count: 0}
		s.windows[key] = w
	}
	w.count++
	return w.count, w.start, nil
}

// Cleanup drops windows that elapsed more than windowDur ago. Callers run it
// periodically; counters recreate on demand so dropping is always safe.
func (s *MemoryCounterStore) Cleanup(windowDur time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, w := range s.windows {
		if now.Sub(w.start) >= 2*windowDur {
			delete(s.windows, key)
		}
	}
}

// StartCleanup runs Cleanup on a ticker until the context is cancelled
func (s *MemoryCounterStore) StartCleanup(ctx context.Context, windowDur time.Duration) {
	ticker := time.NewTicker(windowDur)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Cleanup(windowDur)
			case <-ctx.Done():
				return
			}
		}
	}()
}
