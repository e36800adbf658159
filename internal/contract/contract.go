// Package contract provides interfaces and shared utilities for the localcache internal architecture.
package contract

import (
	"context"
	"errors"

	"github.com/huangsam/localcache/schema"
)

// Sentinel errors shared by store implementations.
var (
	// ErrQuotaExceeded is returned by SetItem when the store has no room for the value.
	ErrQuotaExceeded = errors.New("store quota exceeded")

	// ErrStoreClosed is returned by any operation on a store that was closed.
	ErrStoreClosed = errors.New("store is closed")

	// ErrIndexOutOfRange is returned by Key when the ordinal is not in [0, Len).
	ErrIndexOutOfRange = errors.New("key index out of range")
)

// Store is a synchronous, string-keyed, string-valued persistent key/value store.
// Its lifecycle belongs to the host; the cache only reads, writes, removes and
// enumerates keys through it.
type Store interface {
	// Available reports whether persistent storage exists in this host context.
	Available() bool

	// Len returns the current number of stored keys.
	Len(ctx context.Context) (int, error)

	// Key returns the key at the given ordinal position.
	Key(ctx context.Context, index int) (string, error)

	// GetItem returns the raw value for key. ok is false when nothing is stored.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem stores value under key. It may fail, e.g. with ErrQuotaExceeded.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// KeyLister is implemented by stores that can enumerate all keys in one call.
type KeyLister interface {
	Keys(ctx context.Context) ([]string, error)
}

// StatusReporter is implemented by stores that can describe their backend.
type StatusReporter interface {
	Status(ctx context.Context) (schema.CacheStatus, error)
}

// StoreManager defines the interface for managing the configured store.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetStore() Store
}
