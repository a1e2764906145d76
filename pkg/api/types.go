package api

import (
	"strconv"
	"sync"
	"time"
)

// Record is a tenant-scoped resource managed by the sample handlers
type Record struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"-"`
	Name      string    `json:"name"`
	Notes     string    `json:"notes,omitempty"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecordStore is an in-memory, tenant-partitioned record collection.
// Insertion order is preserved per org so cursor pagination is stable.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string][]*Record // orgID -> records in insertion order
}

// NewRecordStore creates an empty record store
func NewRecordStore() *RecordStore {
	return &RecordStore{records: make(map[string][]*Record)}
}

// Add appends a record to its org's collection
func (s *RecordStore) Add(record *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.OrgID] = append(s.records[record.OrgID], record)
}

// Get returns a record by ID within an org
func (s *RecordStore) Get(orgID, id string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.records[orgID] {
		if record.ID == id {
			return record, true
		}
	}
	return nil, false
}

// List returns up to limit records for an org starting at the given offset,
// along with the offset of the next page (or -1 when exhausted) and the total.
func (s *RecordStore) List(orgID string, offset, limit int) ([]*Record, int, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.records[orgID]
	total := int64(len(all))
	if offset < 0 || offset >= len(all) {
		return []*Record{}, -1, total
	}

	end := offset + limit
	next := end
	if end >= len(all) {
		end = len(all)
		next = -1
	}

	page := make([]*Record, end-offset)
	copy(page, all[offset:end])
	return page, next, total
}

// parseOffset converts a decoded cursor position back into a list offset
func parseOffset(position string) (int, bool) {
	offset, err := strconv.Atoi(position)
	if err != nil || offset < 0 {
		return 0, false
	}
	return offset, true
}
