package memstore

import (
	"context"
	"testing"

	"github.com/huangsam/localcache/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("set get remove", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetItem(ctx, "a", "1"))

		v, ok, err := s.GetItem(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "1", v)

		require.NoError(t, s.RemoveItem(ctx, "a"))
		_, ok, err = s.GetItem(ctx, "a")
		require.NoError(t, err)
		assert.False(t, ok)

		// removing twice is fine
		assert.NoError(t, s.RemoveItem(ctx, "a"))
	})

	t.Run("keys are sorted", func(t *testing.T) {
		s := New()
		for _, k := range []string{"c", "a", "b"} {
			require.NoError(t, s.SetItem(ctx, k, "x"))
		}

		n, err := s.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		keys, err := s.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, keys)

		k, err := s.Key(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "b", k)

		_, err = s.Key(ctx, 3)
		assert.ErrorIs(t, err, contract.ErrIndexOutOfRange)
		_, err = s.Key(ctx, -1)
		assert.ErrorIs(t, err, contract.ErrIndexOutOfRange)

		require.NoError(t, s.RemoveItem(ctx, "a"))
		k, err = s.Key(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, "b", k)
	})

	t.Run("quota", func(t *testing.T) {
		s := New(WithQuota(10))
		require.NoError(t, s.SetItem(ctx, "k", "12345")) // 6 bytes
		assert.ErrorIs(t, s.SetItem(ctx, "j", "12345"), contract.ErrQuotaExceeded)

		// overwriting reuses the old slot
		require.NoError(t, s.SetItem(ctx, "k", "123456789"))
		status, err := s.Status(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 10, status.TableSizeBytes)

		require.NoError(t, s.RemoveItem(ctx, "k"))
		assert.NoError(t, s.SetItem(ctx, "j", "12345"))
	})

	t.Run("disabled", func(t *testing.T) {
		s := New(Disabled())
		assert.False(t, s.Available())
		status, err := s.Status(ctx)
		require.NoError(t, err)
		assert.False(t, status.Connected)
		assert.Equal(t, "memory", status.Backend)
	})
}
