package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/tagtile/internal/mcp"
)

func (a *app) newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: `Start the MCP server on stdio. It exposes the daemon's tags, layouts
and actions as tools and needs a running daemon.

Example:
  claude mcp add tagtile -- tagtile mcp serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcp.NewServer(a.client(), a.slogger()).Run(cmd.Context())
		},
	})
	return cmd
}
