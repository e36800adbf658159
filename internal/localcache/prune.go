package localcache

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/apex/log"
	"github.com/huangsam/localcache/internal/contract"
	"github.com/huangsam/localcache/schema"
)

// candidate is a valid entry competing for a retention slot.
type candidate struct {
	key       string
	timestamp int64
}

// newestFirst orders candidates by timestamp descending, then key ascending.
func newestFirst(a, b candidate) int {
	if c := cmp.Compare(b.timestamp, a.timestamp); c != 0 {
		return c
	}
	return cmp.Compare(a.key, b.key)
}

// Prune bounds the store to at most maxEntries valid, non-preserved entries.
//
// Nothing happens when the store holds maxEntries keys or fewer. Otherwise every
// key is visited once: preserved keys are skipped, unparseable entries and entries
// without a timestamp are removed right away, and of the remaining entries only
// the newest maxEntries are kept. A non-positive maxEntries uses the default.
func (c *LocalCache) Prune(ctx context.Context, preserved []contract.KeyMatcher, maxEntries int) (schema.PruneResult, error) {
	var result schema.PruneResult
	if !c.store.Available() {
		return result, nil
	}
	if maxEntries <= 0 {
		maxEntries = schema.DefaultMaxEntries
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	total, err := c.store.Len(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to count store keys: %w", err)
	}
	if total <= maxEntries {
		result.Skipped = true
		return result, nil
	}

	keys, err := c.snapshotKeys(ctx)
	if err != nil {
		return result, err
	}

	candidates := make([]candidate, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Scanned++

		if contract.AnyMatch(key, preserved) {
			result.Preserved++
			continue
		}

		raw, ok, err := c.store.GetItem(ctx, key)
		if err != nil {
			return result, fmt.Errorf("failed to read cache entry %q: %w", key, err)
		}
		if !ok {
			continue
		}

		state, ts := classify(raw)
		switch state {
		case schema.InvalidEntry:
			c.logger.WithFields(log.Fields{
				"key":   key,
				"value": raw,
			}).Warn("removing unparseable cache entry")
			if err := c.store.RemoveItem(ctx, key); err != nil {
				return result, fmt.Errorf("failed to remove cache entry %q: %w", key, err)
			}
			result.Invalid++
		case schema.LegacyEntry:
			c.logger.WithField("key", key).Debug("removing cache entry without timestamp")
			if err := c.store.RemoveItem(ctx, key); err != nil {
				return result, fmt.Errorf("failed to remove cache entry %q: %w", key, err)
			}
			result.Legacy++
		default:
			candidates = append(candidates, candidate{key: key, timestamp: ts})
		}
	}

	if len(candidates) > maxEntries {
		slices.SortFunc(candidates, newestFirst)
		// Evict from the oldest end so an interrupted pass still removed the right ones.
		for i := len(candidates) - 1; i >= maxEntries; i-- {
			if err := c.store.RemoveItem(ctx, candidates[i].key); err != nil {
				return result, fmt.Errorf("failed to remove cache entry %q: %w", candidates[i].key, err)
			}
			result.Evicted++
		}
	}
	result.Retained = len(candidates) - result.Evicted

	c.logger.WithFields(log.Fields{
		"scanned":   result.Scanned,
		"preserved": result.Preserved,
		"invalid":   result.Invalid,
		"legacy":    result.Legacy,
		"evicted":   result.Evicted,
		"retained":  result.Retained,
	}).Info("pruned cache")
	return result, nil
}
