// Package localcache is a best-effort key/value cache on top of a synchronous Store.
//
// Every value is persisted as a JSON CacheEntry carrying the caller's data and the
// write time. Reads never fail because of a corrupt entry, and Prune keeps the store
// below a configured number of entries by discarding invalid, legacy and then the
// oldest entries.
package localcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/huangsam/localcache/internal/contract"
)

// LocalCache reads and writes timestamped entries through a contract.Store.
// Operations on one LocalCache are serialized.
type LocalCache struct {
	mu     sync.Mutex
	store  contract.Store
	logger log.Interface
	now    func() time.Time
}

// options holds optional overrides for a LocalCache.
type options struct {
	logger log.Interface
	now    func() time.Time
}

// Option customizes a LocalCache.
type Option func(*options)

// WithLogger sets the diagnostics sink. Defaults to the apex/log package logger.
func WithLogger(logger log.Interface) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock overrides the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New returns a LocalCache backed by store.
func New(store contract.Store, opts ...Option) *LocalCache {
	o := options{
		logger: log.Log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &LocalCache{
		store:  store,
		logger: o.logger,
		now:    o.now,
	}
}

// Store returns the underlying store.
func (c *LocalCache) Store() contract.Store {
	return c.store
}

// Get returns the data cached under key, or nil when there is nothing usable.
// A missing store, an empty key, a missing entry and an unparseable entry all
// yield nil without error. Only a failing store read is reported.
func (c *LocalCache) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if !c.store.Available() || key == "" {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok, err := c.store.GetItem(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry %q: %w", key, err)
	}
	if !ok {
		c.logger.WithField("key", key).Debug("cache miss")
		return nil, nil
	}

	data, err := entryData(raw)
	switch {
	case errors.Is(err, errNotAnEntry):
		// Prune counts these as legacy, not invalid.
		c.logger.WithField("key", key).Debug("ignoring value without cache entry")
		return nil, nil
	case err != nil:
		c.logger.WithFields(log.Fields{
			"key":   key,
			"value": raw,
		}).WithError(err).Warn("failed to parse cache entry")
		return nil, nil
	}
	if isNull(data) {
		return nil, nil
	}
	return data, nil
}

// GetAs decodes the data cached under key into T. The boolean is false when
// there is nothing cached.
func GetAs[T any](ctx context.Context, c *LocalCache, key string) (T, bool, error) {
	var out T
	data, err := c.Get(ctx, key)
	if err != nil || data == nil {
		return out, false, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, false, fmt.Errorf("failed to decode cached data %q: %w", key, err)
	}
	return out, true, nil
}

// Save stores data under key together with the current time. Empty keys and
// nil data are ignored, as is everything when the store is unavailable.
func (c *LocalCache) Save(ctx context.Context, key string, data any) error {
	if !c.store.Available() || key == "" || data == nil {
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode data for %q: %w", key, err)
	}
	if isNull(payload) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := encodeEntry(payload, c.now())
	if err != nil {
		return fmt.Errorf("failed to encode cache entry for %q: %w", key, err)
	}
	if err := c.store.SetItem(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write cache entry %q: %w", key, err)
	}
	return nil
}

// Remove deletes a single key.
func (c *LocalCache) Remove(ctx context.Context, key string) error {
	if !c.store.Available() || key == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.RemoveItem(ctx, key); err != nil {
		return fmt.Errorf("failed to remove cache entry %q: %w", key, err)
	}
	return nil
}

// Clear removes every key except the preserved ones and returns how many were removed.
func (c *LocalCache) Clear(ctx context.Context, preserved []contract.KeyMatcher) (int, error) {
	if !c.store.Available() {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	keys, err := c.snapshotKeys(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, key := range keys {
		if contract.AnyMatch(key, preserved) {
			continue
		}
		if err := c.store.RemoveItem(ctx, key); err != nil {
			return removed, fmt.Errorf("failed to remove cache entry %q: %w", key, err)
		}
		removed++
	}
	return removed, nil
}

// snapshotKeys collects every key before any of them is touched, so removals
// during a pass cannot shift ordinals under the iteration.
func (c *LocalCache) snapshotKeys(ctx context.Context) ([]string, error) {
	if lister, ok := c.store.(contract.KeyLister); ok {
		keys, err := lister.Keys(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list store keys: %w", err)
		}
		return keys, nil
	}

	total, err := c.store.Len(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count store keys: %w", err)
	}
	keys := make([]string, 0, total)
	for i := range total {
		key, err := c.store.Key(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("failed to read store key %d: %w", i, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
