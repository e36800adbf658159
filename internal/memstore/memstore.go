// Package memstore provides an in-process contract.Store backed by a map.
package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/huangsam/localcache/internal/contract"
	"github.com/huangsam/localcache/schema"
)

// Store keeps entries in memory. Keys enumerate in ascending order.
type Store struct {
	mu       sync.RWMutex
	items    map[string]string
	keys     []string // sorted, rebuilt lazily
	dirty    bool
	used     int
	quota    int
	disabled bool
}

var (
	_ contract.Store          = &Store{} // Compile-time check
	_ contract.KeyLister      = &Store{} // Compile-time check
	_ contract.StatusReporter = &Store{} // Compile-time check
)

// Option configures a Store.
type Option func(*Store)

// WithQuota limits the summed size of keys and values in bytes. Zero means unlimited.
func WithQuota(bytes int) Option {
	return func(s *Store) { s.quota = bytes }
}

// Disabled makes the store report itself unavailable.
func Disabled() Option {
	return func(s *Store) { s.disabled = true }
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{items: make(map[string]string)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available implements contract.Store.
func (s *Store) Available() bool {
	return !s.disabled
}

// Len implements contract.Store.
func (s *Store) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}

// Key implements contract.Store.
func (s *Store) Key(_ context.Context, index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := s.sortedKeys()
	if index < 0 || index >= len(keys) {
		return "", contract.ErrIndexOutOfRange
	}
	return keys[index], nil
}

// Keys implements contract.KeyLister.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sortedKeys()), nil
}

// GetItem implements contract.Store.
func (s *Store) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

// SetItem implements contract.Store. It fails with contract.ErrQuotaExceeded
// when the write would take the store past its quota.
func (s *Store) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, exists := s.items[key]
	used := s.used + len(key) + len(value)
	if exists {
		used -= len(key) + len(old)
	}
	if s.quota > 0 && used > s.quota {
		return contract.ErrQuotaExceeded
	}

	s.items[key] = value
	s.used = used
	if !exists {
		s.dirty = true
	}
	return nil
}

// RemoveItem implements contract.Store.
func (s *Store) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.items[key]; ok {
		s.used -= len(key) + len(old)
		delete(s.items, key)
		s.dirty = true
	}
	return nil
}

// Status implements contract.StatusReporter.
func (s *Store) Status(_ context.Context) (schema.CacheStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return schema.CacheStatus{
		Backend:        string(schema.MemoryBackend),
		Connected:      !s.disabled,
		TotalEntries:   len(s.items),
		TableSizeBytes: int64(s.used),
	}, nil
}

// sortedKeys must be called with the write lock held.
func (s *Store) sortedKeys() []string {
	if s.dirty || s.keys == nil {
		s.keys = s.keys[:0]
		for k := range s.items {
			s.keys = append(s.keys, k)
		}
		slices.Sort(s.keys)
		s.dirty = false
	}
	return s.keys
}
