package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	metricsmcp "github.com/valter-silva-au/agent-metrics/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the agent-metrics MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the agent-metrics MCP server on stdio",
	Long: `Start the agent-metrics MCP server on stdio transport.

The server exposes the analyzer as MCP tools that AI coding assistants can
call: get_metrics, get_agents, get_quality, get_trend, get_alerts,
get_snapshot. The event log is re-read on every call.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAnalyzer(); err != nil {
			return err
		}

		engine := AlertEngine
		if Config != nil && !Config.Alerts.Enabled {
			engine = nil
		}
		srv := metricsmcp.NewServer(Analyzer, engine, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
