package localcache

import (
	"context"
	"testing"
	"time"

	"github.com/huangsam/localcache/internal/memstore"
	"github.com/huangsam/localcache/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	require.NoError(t, store.SetItem(ctx, "e", `{"data":1}`))
	c, _ := newTestCache(t, store)

	entries, err := c.Inspect(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	var keys []string
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"c", "b", "a", "d", "e"}, keys)
	assert.Equal(t, schema.ValidEntry, entries[0].State)
	assert.EqualValues(t, 300, entries[0].Timestamp)
	assert.Equal(t, schema.InvalidEntry, entries[3].State)
	assert.Equal(t, schema.LegacyEntry, entries[4].State)
	assert.Equal(t, len("d")+len("malformed"), entries[3].SizeBytes)

	// read only
	n, _ := store.Len(ctx)
	assert.Equal(t, 5, n)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("memory store", func(t *testing.T) {
		c, _ := newTestCache(t, seedStore(t))

		status, err := c.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, "memory", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 4, status.TotalEntries)
		assert.Equal(t, 3, status.ValidEntries)
		assert.Equal(t, 1, status.InvalidEntries)
		assert.Equal(t, time.UnixMilli(300), status.LastEntryTime)
		assert.Equal(t, time.UnixMilli(100), status.OldestEntryTime)
		assert.Positive(t, status.TableSizeBytes)
	})

	t.Run("plain store", func(t *testing.T) {
		c, _ := newTestCache(t, ordinalOnly{seedStore(t)})

		status, err := c.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, "unknown", status.Backend)
		assert.Equal(t, 4, status.TotalEntries)
	})

	t.Run("unavailable", func(t *testing.T) {
		c, _ := newTestCache(t, memstore.New(memstore.Disabled()))

		status, err := c.Status(ctx)
		require.NoError(t, err)
		assert.False(t, status.Connected)
		assert.Zero(t, status.TotalEntries)
	})
}
