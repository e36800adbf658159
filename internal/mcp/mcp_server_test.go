package mcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/huangsam/localcache/internal/contract"
	"github.com/huangsam/localcache/internal/iocache"
	mcp_internal "github.com/huangsam/localcache/internal/mcp"
	"github.com/huangsam/localcache/internal/memstore"
	"github.com/huangsam/localcache/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(ctx context.Context, t *testing.T, cfg *contract.Config, mgr contract.StoreManager, name string, args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res, res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{MaxEntries: contract.DefaultMaxEntries}
	ctx := context.Background()

	// Argument validation runs before the manager is consulted
	var mgr contract.StoreManager

	t.Run("cache_get missing key", func(t *testing.T) {
		res, text := call(ctx, t, baseCfg, mgr, "cache_get", map[string]any{})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, text, "key is required")
	})

	t.Run("cache_save invalid value", func(t *testing.T) {
		res, text := call(ctx, t, baseCfg, mgr, "cache_save", map[string]any{"key": "a", "value": "{nope"})
		assert.True(t, res.IsError)
		assert.Contains(t, text, "valid JSON")
	})

	t.Run("cache_prune negative max_entries", func(t *testing.T) {
		res, text := call(ctx, t, baseCfg, mgr, "cache_prune", map[string]any{"max_entries": -1.0})
		assert.True(t, res.IsError)
		assert.Contains(t, text, "max_entries must be greater than 0")
	})

	t.Run("no manager", func(t *testing.T) {
		res, text := call(ctx, t, baseCfg, mgr, "cache_status", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, text, "no store manager")
	})

	t.Run("store not initialized", func(t *testing.T) {
		m := &iocache.MockStoreManager{}
		m.On("GetStore").Return(nil)
		res, text := call(ctx, t, baseCfg, m, "cache_list", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, text, "not initialized")
	})
}

func TestMCPServerHandlers_RoundTrip(t *testing.T) {
	ctx := context.Background()
	baseCfg := &contract.Config{MaxEntries: contract.DefaultMaxEntries}
	store := memstore.New()
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetStore").Return(store)

	s := mcp_internal.NewMCPServer(baseCfg, mgr)
	invoke := func(name string, args map[string]any) (*mcp.CallToolResult, string) {
		tool := s.GetTool(name)
		require.NotNil(t, tool, "Tool %s should exist", name)
		res, err := tool.Handler(ctx, mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: name, Arguments: args},
		})
		require.NoError(t, err)
		return res, res.Content[0].(mcp.TextContent).Text
	}

	res, text := invoke("cache_get", map[string]any{"key": "user/1"})
	assert.False(t, res.IsError)
	assert.Equal(t, "null", text)

	for i := range 3 {
		res, _ = invoke("cache_save", map[string]any{
			"key":   fmt.Sprintf("user/%d", i),
			"value": fmt.Sprintf(`{"id":%d}`, i),
		})
		require.False(t, res.IsError)
	}
	require.NoError(t, store.SetItem(ctx, "broken", "{"))

	res, text = invoke("cache_get", map[string]any{"key": "user/1"})
	require.False(t, res.IsError)
	assert.JSONEq(t, `{"id":1}`, text)

	res, text = invoke("cache_list", map[string]any{"limit": 2.0})
	require.False(t, res.IsError)
	var entries []schema.EntryInfo
	require.NoError(t, json.Unmarshal([]byte(text), &entries))
	assert.Len(t, entries, 2)

	res, text = invoke("cache_status", map[string]any{})
	require.False(t, res.IsError)
	var status schema.CacheStatus
	require.NoError(t, json.Unmarshal([]byte(text), &status))
	assert.Equal(t, "memory", status.Backend)
	assert.Equal(t, 4, status.TotalEntries)
	assert.Equal(t, 1, status.InvalidEntries)

	res, text = invoke("cache_prune", map[string]any{"max_entries": 1.0, "preserve": "user/0"})
	require.False(t, res.IsError)
	var pruned struct {
		Removed int                `json:"removed"`
		Result  schema.PruneResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &pruned))
	assert.Equal(t, 1, pruned.Result.Invalid)
	assert.Equal(t, 1, pruned.Result.Preserved)
	assert.Equal(t, 1, pruned.Result.Evicted)
	assert.Equal(t, 2, pruned.Removed)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.Contains(t, keys, "user/0")

	res, _ = invoke("cache_remove", map[string]any{"key": "user/0"})
	require.False(t, res.IsError)
	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
