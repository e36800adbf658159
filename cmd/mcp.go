package cmd

import (
	"github.com/huangsam/localcache/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the localcache MCP server",
	Long:    `Launch an MCP server on stdio that lets AI agents read, write, list and prune cache entries.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(cmd.Context(), cfg, storeManager)
	},
}
