package advisorystore

import (
	"context"
	"sync"
	"time"

	"github.com/agromitra/advisory-engine/internal/domain/advisory"
)

const (
	defaultTTL        = 30 * time.Minute
	defaultMaxEntries = 1000
)

type storedRecord struct {
	payload   advisory.Record
	savedAt   time.Time
	expiresAt time.Time
}

// MemoryStore is a bounded in-process advisory context cache. Entries expire
// after a TTL and the oldest entry is evicted once the store is full.
type MemoryStore struct {
	mu         sync.RWMutex
	records    map[string]storedRecord
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryStore constructs a store backed by process memory. Non-positive
// ttl or maxEntries fall back to defaults.
func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &MemoryStore{
		records:    make(map[string]storedRecord),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Save implements advisory.ContextStore.
func (s *MemoryStore) Save(_ context.Context, record advisory.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if _, exists := s.records[record.ID]; !exists && len(s.records) >= s.maxEntries {
		s.evictOldestLocked()
	}
	s.records[record.ID] = storedRecord{
		payload:   record,
		savedAt:   now,
		expiresAt: now.Add(s.ttl),
	}
	return nil
}

// Get implements advisory.ContextStore.
func (s *MemoryStore) Get(_ context.Context, id string) (advisory.Record, bool, error) {
	s.mu.RLock()
	record, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return advisory.Record{}, false, nil
	}
	if record.expiresAt.Before(s.now()) {
		s.mu.Lock()
		delete(s.records, id)
		s.mu.Unlock()
		return advisory.Record{}, false, nil
	}
	return record.payload, true, nil
}

// Len reports the current number of cached advisories.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	for id, record := range s.records {
		if oldestID == "" || record.savedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = record.savedAt
		}
	}
	if oldestID != "" {
		delete(s.records, oldestID)
	}
}

var _ advisory.ContextStore = (*MemoryStore)(nil)
