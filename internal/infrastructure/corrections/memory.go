package corrections

import (
	"context"
	"sync"

	"github.com/listmatic/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory correction store without persistence
type MemoryStore struct {
	data  map[string]domain.Correction
	mutex sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]domain.Correction),
	}
}

// Get retrieves the correction stored under key
func (s *MemoryStore) Get(ctx context.Context, key string) (*domain.Correction, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	c, exists := s.data[key]
	if !exists {
		return nil, domain.ErrCorrectionNotFound
	}
	return &c, nil
}

// Upsert stores or overwrites the correction for key
func (s *MemoryStore) Upsert(ctx context.Context, key string, correction domain.Correction) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = correction
	return nil
}

// All returns a copy of every stored correction
func (s *MemoryStore) All(ctx context.Context) (map[string]domain.Correction, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make(map[string]domain.Correction, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out, nil
}

// Delete removes a correction
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.data[key]; !exists {
		return domain.ErrCorrectionNotFound
	}
	delete(s.data, key)
	return nil
}

// Size returns the number of stored corrections
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}
