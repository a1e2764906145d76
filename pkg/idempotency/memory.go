package idempotency

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryRecord struct {
	record    Record
	expiresAt time.Time
}

// MemoryStore is an in-process Store for single-instance deployments and
// tests. Expired records are dropped lazily on access and by Cleanup.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*memoryRecord
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory idempotency store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*memoryRecord),
		now:     time.Now,
	}
}

// TryClaim implements Store
func (s *MemoryStore) TryClaim(_ context.Context, key, fingerprint string, ttl time.Duration) (ClaimResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.records[key]; ok && now.Before(existing.expiresAt) {
		record := existing.record
		return ClaimResult{Claimed: false, Existing: &record}, nil
	}

	s.records[key] = &memoryRecord{
		record: Record{
			Key:         key,
			Fingerprint: fingerprint,
			Status:      StatusInFlight,
			CreatedAt:   now,
		},
		expiresAt: now.Add(ttl),
	}
	return ClaimResult{Claimed: true}, nil
}

// Complete implements Store
func (s *MemoryStore) Complete(_ context.Context, key string, response StoredResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[key]
	if !ok || !s.now().Before(existing.expiresAt) {
		// Claim lapsed before the handler finished; nothing to replay from.
		return fmt.Errorf("idempotency claim for %q expired before completion", key)
	}

	existing.record.Status = StatusComplete
	existing.record.Response = &response
	return nil
}

// Cleanup drops expired records
func (s *MemoryStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, rec := range s.records {
		if !now.Before(rec.expiresAt) {
			delete(s.records, key)
		}
	}
}

// StartCleanup runs Cleanup on a ticker until the context is cancelled
func (s *MemoryStore) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()
}
