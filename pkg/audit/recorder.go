package audit

import (
	"context"
	"sync"
)

// Recorder persists audit events. Implementations must be safe for concurrent
// use; Record failures must never fail the request that produced the event.
type Recorder interface {
	Record(ctx context.Context, event *Event) error
	Close() error
}

// NopRecorder discards every event
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, *Event) error { return nil }
func (NopRecorder) Close() error                         { return nil }

// MemoryRecorder is an in-process Recorder for tests and single-instance
// deployments. Events accumulate unbounded; production setups use FileRecorder.
type MemoryRecorder struct {
	mu     sync.Mutex
	events []*Event
}

// NewMemoryRecorder creates an empty in-memory recorder
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record implements Recorder
func (r *MemoryRecorder) Record(_ context.Context, event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the recorded events in arrival order
func (r *MemoryRecorder) Events() []*Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Event, len(r.events))
	copy(out, r.events)
	return out
}

// Close implements Recorder
func (r *MemoryRecorder) Close() error { return nil }
