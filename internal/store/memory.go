package store

import (
	"sync"

	"github.com/i474232898/uv-alert/internal/uv"
)

// MemoryStore is a concurrency-safe in-memory sunscreen record store.
// It is used when no state path is configured and by one-shot commands.
type MemoryStore struct {
	mu     sync.RWMutex
	record *uv.SunscreenRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored record or uv.ErrNoRecord.
func (s *MemoryStore) Load() (uv.SunscreenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.record == nil {
		return uv.SunscreenRecord{}, uv.ErrNoRecord
	}
	return *s.record, nil
}

// Save replaces the stored record.
func (s *MemoryStore) Save(rec uv.SunscreenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record = &rec
	return nil
}

// Clear removes the stored record.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record = nil
	return nil
}
