package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fitpilot/fitpilot-cli/internal/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server for LLM agent integration",
	Long: `Run the MCP (Model Context Protocol) server over stdio. This
lets LLM agents inspect your program, start workouts, log sets, and
finish sessions through the trainer platform API.`,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := setupSignalHandler()

	server := mcp.NewServer(apiClient, storageAdapter.History())
	defer server.Stop()

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}
