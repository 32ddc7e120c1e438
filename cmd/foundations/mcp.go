package main

import (
	foundationsmcp "github.com/Jcblmao/Foundations/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for coding agent integration",
	Long: `Start a Model Context Protocol (MCP) server over stdio.

This lets coding agents browse and edit the tracked properties
directly.

Configuration example:

  {
    "mcpServers": {
      "foundations": {
        "command": "foundations",
        "args": ["mcp"],
        "env": {
          "FOUNDATIONS_CACHE_PATH": "/path/to/cache.db"
        }
      }
    }
  }

Environment variables:
  FOUNDATIONS_CACHE_PATH  Path to local cache database
  FOUNDATIONS_REMOTE_URL  Remote store URL (optional, enables sync)
  FOUNDATIONS_AUTH_TOKEN  Auth token (required if remote URL set)
  FOUNDATIONS_OWNER_ID    Owner record ID (required if remote URL set)`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	server := foundationsmcp.NewServer(client)
	return server.Run()
}
