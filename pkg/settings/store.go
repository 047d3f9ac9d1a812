// Package settings resolves dashboard settings from a key-value store with built-in defaults.
package settings

import (
	"context"
	"sync"

	"github.com/umputun/tweetboard/pkg/domain"
)

// Store is a persistent string key-value storage
type Store interface {
	Get(ctx context.Context, key domain.SettingKey) (value string, ok bool, err error)
	Set(ctx context.Context, key domain.SettingKey, value string) error
	Clear(ctx context.Context) error
	Len(ctx context.Context) (int, error)
}

// MemoryStore keeps settings in a map, used in tests and when no database is configured
type MemoryStore struct {
	mu     sync.RWMutex
	values map[domain.SettingKey]string
}

// NewMemoryStore makes an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[domain.SettingKey]string{}}
}

// Get returns a stored value
func (m *MemoryStore) Get(_ context.Context, key domain.SettingKey) (value string, ok bool, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok = m.values[key]
	return value, ok, nil
}

// Set stores a value
func (m *MemoryStore) Set(_ context.Context, key domain.SettingKey, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Clear removes all values
func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = map[domain.SettingKey]string{}
	return nil
}

// Len returns the number of stored values
func (m *MemoryStore) Len(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values), nil
}

// noopStore never holds anything, it stands in for a missing store
type noopStore struct{}

func (noopStore) Get(context.Context, domain.SettingKey) (string, bool, error) { return "", false, nil }
func (noopStore) Set(context.Context, domain.SettingKey, string) error { return nil }
func (noopStore) Clear(context.Context) error { return nil }
func (noopStore) Len(context.Context) (int, error) { return 0, nil }
