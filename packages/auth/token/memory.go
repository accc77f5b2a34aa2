package token

import (
	"context"
	"sync"
)

// MemoryStore keeps the credential in process memory
type MemoryStore struct {
	values map[string]string
	mutex  sync.RWMutex
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

// Get retrieves the token
func (s *MemoryStore) Get(_ context.Context) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	v, ok := s.values[Key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores the token
func (s *MemoryStore) Set(_ context.Context, token string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.values[Key] = token
	return nil
}

// Delete removes the token
func (s *MemoryStore) Delete(_ context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.values, Key)
	return nil
}
