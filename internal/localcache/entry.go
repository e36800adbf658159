package localcache

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/huangsam/localcache/schema"
	"github.com/tidwall/gjson"
)

// encodeEntry wraps an already encoded payload into the stored entry format.
func encodeEntry(payload json.RawMessage, now time.Time) (string, error) {
	raw, err := json.Marshal(schema.CacheEntry{
		Data:      payload,
		Timestamp: now.UnixMilli(),
	})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

var (
	errMalformedEntry = errors.New("stored value is not valid JSON")
	errNotAnEntry     = errors.New("stored value is not a JSON object")
)

// entryData returns the data field of a stored value. Only data is decoded, so
// the encoding of the timestamp never makes an entry unreadable. A stored JSON
// null and a missing or null data field yield nil.
func entryData(raw string) (json.RawMessage, error) {
	if !gjson.Valid(raw) {
		return nil, errMalformedEntry
	}
	parsed := gjson.Parse(raw)
	switch {
	case parsed.Type == gjson.Null:
		return nil, nil
	case !parsed.IsObject():
		return nil, errNotAnEntry
	}
	data := parsed.Get("data")
	if !data.Exists() || data.Type == gjson.Null {
		return nil, nil
	}
	return json.RawMessage(data.Raw), nil
}

// classify decides what a prune pass does with a stored value without
// decoding the data payload. Valid entries report their timestamp.
func classify(raw string) (schema.EntryState, int64) {
	if !gjson.Valid(raw) {
		return schema.InvalidEntry, 0
	}
	parsed := gjson.Parse(raw)
	if parsed.Type == gjson.Null {
		return schema.InvalidEntry, 0
	}
	if !parsed.IsObject() {
		return schema.LegacyEntry, 0
	}
	ts := parsed.Get("timestamp")
	if ts.Type != gjson.Number || ts.Float() == 0 {
		return schema.LegacyEntry, 0
	}
	return schema.ValidEntry, ts.Int()
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
