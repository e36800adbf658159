// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/localcache/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the localcache MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Localcache Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: cache_get ---
	s.AddTool(mcp.NewTool("cache_get",
		mcp.WithDescription("Read the JSON data cached under a key. Returns null when nothing usable is cached."),
		mcp.WithString("key", mcp.Description("The cache key."), mcp.Required()),
	), h.handleGet)

	// --- 2. Tool: cache_save ---
	s.AddTool(mcp.NewTool("cache_save",
		mcp.WithDescription("Cache a JSON value under a key, stamped with the current time."),
		mcp.WithString("key", mcp.Description("The cache key."), mcp.Required()),
		mcp.WithString("value", mcp.Description("The value as a JSON document, e.g. '{\"a\":1}'."), mcp.Required()),
	), h.handleSave)

	// --- 3. Tool: cache_remove ---
	s.AddTool(mcp.NewTool("cache_remove",
		mcp.WithDescription("Remove a single key from the cache."),
		mcp.WithString("key", mcp.Description("The cache key."), mcp.Required()),
	), h.handleRemove)

	// --- 4. Tool: cache_prune ---
	s.AddTool(mcp.NewTool("cache_prune",
		mcp.WithDescription("Drop invalid and legacy entries and keep only the newest entries."),
		mcp.WithNumber("max_entries", mcp.Description("Number of valid entries to keep. Defaults to the configured value.")),
		mcp.WithString("preserve", mcp.Description("Comma-separated keys, prefixes (ending in '/') or globs that are never removed.")),
	), h.handlePrune)

	// --- 5. Tool: cache_list ---
	s.AddTool(mcp.NewTool("cache_list",
		mcp.WithDescription("List every stored key with its state, timestamp and size."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of entries returned.")),
	), h.handleList)

	// --- 6. Tool: cache_status ---
	s.AddTool(mcp.NewTool("cache_status",
		mcp.WithDescription("Describe the cache backend and count its entries by state."),
	), h.handleStatus)

	return s
}

// StartMCPServer starts the localcache MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
