package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/huangsam/localcache/internal/contract"
	"github.com/huangsam/localcache/internal/localcache"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager

	mu    sync.Mutex
	cache *localcache.LocalCache
}

// localCache returns a cache over the manager's current store, reusing the
// previous one while the store stays the same so passes stay serialized.
func (h *toolHandler) localCache() (*localcache.LocalCache, error) {
	if h.mgr == nil {
		return nil, errors.New("no store manager configured")
	}
	store := h.mgr.GetStore()
	if store == nil {
		return nil, errors.New("cache store is not initialized")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cache == nil || h.cache.Store() != store {
		h.cache = localcache.New(store)
	}
	return h.cache, nil
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := request.GetString("key", "")
	if key == "" {
		return mcp.NewToolResultError("key is required"), nil
	}

	c, err := h.localCache()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := c.Get(ctx, key)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get failed: %v", err)), nil
	}
	if data == nil {
		return mcp.NewToolResultText("null"), nil
	}
	return jsonResult(data), nil
}

func (h *toolHandler) handleSave(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := request.GetString("key", "")
	if key == "" {
		return mcp.NewToolResultError("key is required"), nil
	}
	value := request.GetString("value", "")
	if !json.Valid([]byte(value)) {
		return mcp.NewToolResultError("value must be a valid JSON document"), nil
	}

	c, err := h.localCache()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := c.Save(ctx, key, json.RawMessage(value)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("save failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved %s", key)), nil
}

func (h *toolHandler) handleRemove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := request.GetString("key", "")
	if key == "" {
		return mcp.NewToolResultError("key is required"), nil
	}

	c, err := h.localCache()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := c.Remove(ctx, key); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("remove failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed %s", key)), nil
}

func (h *toolHandler) handlePrune(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if n := request.GetInt("max_entries", 0); n != 0 {
		if n < 0 {
			return mcp.NewToolResultError(fmt.Sprintf("max_entries must be greater than 0 (received %d)", n)), nil
		}
		cfg.MaxEntries = n
	}
	if p := request.GetString("preserve", ""); p != "" {
		cfg.Preserve = append(cfg.Preserve, p)
		cfg.Preserved = append(cfg.Preserved, contract.ParsePreserved([]string{p})...)
	}

	c, err := h.localCache()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := c.Prune(ctx, cfg.Preserved, cfg.MaxEntries)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("prune failed: %v", err)), nil
	}
	return jsonResult(struct {
		Removed int `json:"removed"`
		Result  any `json:"result"`
	}{result.Removed(), result}), nil
}

func (h *toolHandler) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := h.localCache()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entries, err := c.Inspect(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 && l < len(entries) {
		entries = entries[:l]
	}
	return jsonResult(entries), nil
}

func (h *toolHandler) handleStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := h.localCache()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := c.Status(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status failed: %v", err)), nil
	}
	return jsonResult(status), nil
}
