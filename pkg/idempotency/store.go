package idempotency

import (
	"context"
	"encoding/json"
	"time"
)

// Status is the lifecycle state of an idempotency record
type Status string

const (
	// StatusInFlight marks a claimed key whose handler has not finished
	StatusInFlight Status = "in-flight"
	// StatusComplete marks a key whose response is stored for replay
	StatusComplete Status = "complete"
)

// StoredResponse is a completed handler response kept for verbatim replay
type StoredResponse struct {
	StatusCode int             `json:"status"`
	Body       json.RawMessage `json:"body"`
}

// Record tracks one idempotency key from claim to completion
type Record struct {
	Key         string          `json:"key"`
	Fingerprint string          `json:"fingerprint"`
	Status      Status          `json:"status"`
	Response    *StoredResponse `json:"response,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ClaimResult is the outcome of TryClaim. Claimed true means the caller owns
// the key and must execute the handler then call Complete. Claimed false means
// another request got there first; Existing holds its record.
type ClaimResult struct {
	Claimed  bool
	Existing *Record
}

// Store is the shared idempotency record state. Implementations must be safe
// for concurrent use, and TryClaim must be atomic: two concurrent requests for
// the same key cannot both believe they are first. Records expire after their
// TTL regardless of status, so an abandoned in-flight claim eventually lapses.
type Store interface {
	TryClaim(ctx context.Context, key, fingerprint string, ttl time.Duration) (ClaimResult, error)
	Complete(ctx context.Context, key string, response StoredResponse) error
}
