// Package schema has models and constants shared by all parts of localcache.
package schema

import (
	"encoding/json"
	"time"
)

// CacheEntry is the value persisted under every key written by the cache.
type CacheEntry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"` // milliseconds since the Unix epoch
}

// Time returns the entry timestamp as a time.Time.
func (e CacheEntry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// EntryInfo describes one stored key as seen by an inspection pass.
type EntryInfo struct {
	Key       string     `json:"key"`
	State     EntryState `json:"state"`
	Timestamp int64      `json:"timestamp,omitempty"` // zero unless State is valid
	SizeBytes int        `json:"size_bytes"`
}

// Time returns the entry timestamp as a time.Time, or the zero time when absent.
func (e EntryInfo) Time() time.Time {
	if e.Timestamp == 0 {
		return time.Time{}
	}
	return time.UnixMilli(e.Timestamp)
}

// PruneResult summarizes what a prune pass did to the store.
type PruneResult struct {
	Skipped   bool `json:"skipped"`   // store was at or below the ceiling, nothing scanned
	Scanned   int  `json:"scanned"`   // keys enumerated
	Preserved int  `json:"preserved"` // keys matched by a preserved matcher
	Invalid   int  `json:"invalid"`   // unparseable entries removed
	Legacy    int  `json:"legacy"`    // entries without timestamp removed
	Evicted   int  `json:"evicted"`   // oldest valid entries removed
	Retained  int  `json:"retained"`  // valid entries left in place
}

// Removed returns the total number of keys deleted by the pass.
func (r PruneResult) Removed() int {
	return r.Invalid + r.Legacy + r.Evicted
}
