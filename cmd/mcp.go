package cmd

import (
	"github.com/huangsam/weighttrend/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the weighttrend MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents read chart frames and series summaries via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logging already goes to stderr, which keeps stdio free for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
