package settings

import (
	"context"
	"sort"
	"sync"
)

// Store persists setting values in their string representation.
type Store interface {
	// GetSettingValue returns the stored value of key or ErrNotFound.
	GetSettingValue(ctx context.Context, key string) (string, error)
	SaveSettingValue(ctx context.Context, key, value string) error
	// DeleteSettingValue removes the value of key. Deleting a missing
	// value is not an error.
	DeleteSettingValue(ctx context.Context, key string) error
	GetSettingValues(ctx context.Context) (map[string]string, error)
	GetSettingKeys(ctx context.Context) ([]string, error)
	DeleteAll(ctx context.Context) error
	Close() error
}

// MemoryStore keeps values in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns a store holding a copy of initial.
func NewMemoryStore(initial map[string]string) *MemoryStore {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &MemoryStore{values: values}
}

// GetSettingValue implements Store.
func (s *MemoryStore) GetSettingValue(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// SaveSettingValue implements Store.
func (s *MemoryStore) SaveSettingValue(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// DeleteSettingValue implements Store.
func (s *MemoryStore) DeleteSettingValue(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// GetSettingValues implements Store.
func (s *MemoryStore) GetSettingValues(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values := make(map[string]string, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	return values, nil
}

// GetSettingKeys implements Store.
func (s *MemoryStore) GetSettingKeys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// DeleteAll implements Store.
func (s *MemoryStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
