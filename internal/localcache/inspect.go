package localcache

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/localcache/internal/contract"
	"github.com/huangsam/localcache/schema"
)

// Inspect classifies every stored key without modifying the store.
// Valid entries come first, newest first; the rest follow sorted by key.
func (c *LocalCache) Inspect(ctx context.Context) ([]schema.EntryInfo, error) {
	if !c.store.Available() {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	keys, err := c.snapshotKeys(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]schema.EntryInfo, 0, len(keys))
	for _, key := range keys {
		raw, ok, err := c.store.GetItem(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read cache entry %q: %w", key, err)
		}
		if !ok {
			continue
		}
		state, ts := classify(raw)
		entries = append(entries, schema.EntryInfo{
			Key:       key,
			State:     state,
			Timestamp: ts,
			SizeBytes: len(key) + len(raw),
		})
	}

	slices.SortFunc(entries, func(a, b schema.EntryInfo) int {
		av, bv := a.State == schema.ValidEntry, b.State == schema.ValidEntry
		switch {
		case av && !bv:
			return -1
		case !av && bv:
			return 1
		case av && bv:
			return newestFirst(candidate{a.Key, a.Timestamp}, candidate{b.Key, b.Timestamp})
		default:
			return cmp.Compare(a.Key, b.Key)
		}
	})
	return entries, nil
}

// Status describes the store contents. Stores implementing contract.StatusReporter
// supply the backend details; entry counts always come from an inspection pass.
func (c *LocalCache) Status(ctx context.Context) (schema.CacheStatus, error) {
	status := schema.CacheStatus{Backend: "unknown"}
	if reporter, ok := c.store.(contract.StatusReporter); ok {
		s, err := reporter.Status(ctx)
		if err != nil {
			return status, fmt.Errorf("failed to get store status: %w", err)
		}
		status = s
	}
	if !c.store.Available() {
		status.Connected = false
		return status, nil
	}
	status.Connected = true

	entries, err := c.Inspect(ctx)
	if err != nil {
		return status, err
	}
	status.TotalEntries = len(entries)
	status.ValidEntries, status.LegacyEntries, status.InvalidEntries = 0, 0, 0

	var size int64
	var newest, oldest int64
	for _, e := range entries {
		size += int64(e.SizeBytes)
		switch e.State {
		case schema.ValidEntry:
			status.ValidEntries++
			if newest == 0 || e.Timestamp > newest {
				newest = e.Timestamp
			}
			if oldest == 0 || e.Timestamp < oldest {
				oldest = e.Timestamp
			}
		case schema.LegacyEntry:
			status.LegacyEntries++
		default:
			status.InvalidEntries++
		}
	}
	if status.TableSizeBytes == 0 {
		status.TableSizeBytes = size
	}
	if newest != 0 {
		status.LastEntryTime = time.UnixMilli(newest)
		status.OldestEntryTime = time.UnixMilli(oldest)
	}
	return status, nil
}
