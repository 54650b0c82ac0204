package kvstore

import (
	"context"
	"sync"
)

// InMemoryStore implements Store using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[string]string),
	}
}

// Get returns the value for key, or ErrKeyNotFound
func (s *InMemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.entries[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return val, nil
}

// Set writes the value for key
func (s *InMemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value
	return nil
}

// Delete removes the key
func (s *InMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Close is a no-op for the in-memory store
func (s *InMemoryStore) Close() error {
	return nil
}

// Len returns the number of stored entries (for testing/monitoring)
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure InMemoryStore implements Store
var _ Store = (*InMemoryStore)(nil)
