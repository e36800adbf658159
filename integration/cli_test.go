//go:build basic

package integration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/localcache/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSQLiteWorkflow drives every command against a throwaway SQLite file.
func TestSQLiteWorkflow(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	t.Setenv("LOCALCACHE_BACKEND", "sqlite")
	t.Setenv("LOCALCACHE_DB_CONNECT", dbPath)

	for i := 1; i <= 5; i++ {
		_, err := runCommand(t, "save", fmt.Sprintf("k%d", i), fmt.Sprintf(`{"n":%d}`, i))
		require.NoError(t, err)
	}

	out, err := runCommand(t, "get", "k3")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":3}`, out)

	_, err = runCommand(t, "get", "missing")
	assert.Error(t, err, "get exits non-zero when nothing is cached")

	out, err = runCommand(t, "prune", "--max-entries", "2", "--preserve", "k1", "--output", "json")
	require.NoError(t, err)
	var pruned map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &pruned))
	assert.EqualValues(t, 2, pruned["evicted"])
	assert.EqualValues(t, 1, pruned["preserved"])

	out, err = runCommand(t, "list", "--output", "json")
	require.NoError(t, err)
	var entries []schema.EntryInfo
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	assert.ElementsMatch(t, []string{"k1", "k4", "k5"}, keys)

	out, err = runCommand(t, "status", "--output", "json")
	require.NoError(t, err)
	var status schema.CacheStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 3, status.TotalEntries)

	parquetPath := filepath.Join(t.TempDir(), "entries.parquet")
	out, err = runCommand(t, "export", "--output-file", parquetPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 entries")
	_, err = os.Stat(parquetPath)
	require.NoError(t, err)

	out, err = runCommand(t, "store", "migrate", "--to", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "rolled back")
	out, err = runCommand(t, "store", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully migrated")

	// The rollback dropped the table, so the store starts empty again
	_, err = runCommand(t, "save", "k6", `{"n":6}`)
	require.NoError(t, err)
	_, err = runCommand(t, "save", "k7", `{"n":7}`)
	require.NoError(t, err)
	_, err = runCommand(t, "clear", "--preserve", "k6")
	require.NoError(t, err)
	out, err = runCommand(t, "list", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "k6")
	assert.NotContains(t, out, "k7")

	_, err = runCommand(t, "clear", "--all")
	require.NoError(t, err)
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err), "clear --all removes the database file")
}

// TestNoneBackend checks that an unavailable store turns every operation into a no-op.
func TestNoneBackend(t *testing.T) {
	t.Setenv("LOCALCACHE_BACKEND", "none")

	_, err := runCommand(t, "save", "k", `{"n":1}`)
	require.NoError(t, err)
	_, err = runCommand(t, "get", "k")
	assert.Error(t, err)
	out, err := runCommand(t, "prune", "--max-entries", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 entries")
	out, err = runCommand(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Connected: false")
}

func TestVersion(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "localcache CLI")
	assert.Contains(t, out, "Backend: sqlite")
	assert.Contains(t, out, "Schema:  v2")

	out, err = runCommand(t, "version", "--backend", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "Backend: memory")
	assert.NotContains(t, out, "Schema:")
}
