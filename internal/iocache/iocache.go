// Package iocache builds and manages the store behind the cache.
package iocache

import (
	"errors"
	"io"
	"sync"

	"github.com/huangsam/localcache/internal/contract"
)

// ErrUnsupportedBackend is returned when a backend cannot serve the requested operation.
var ErrUnsupportedBackend = errors.New("unsupported backend")

// CacheStoreManager holds the store configured for this process.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        contract.Store
}

var _ contract.StoreManager = &CacheStoreManager{} // Compile-time check

// GetStore returns the configured store.
func (mgr *CacheStoreManager) GetStore() contract.Store {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}

// closeStore closes store if it holds resources.
func closeStore(store contract.Store) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
