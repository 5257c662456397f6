package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	growmcp "github.com/kwacihq/grow/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the grow MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the grow MCP server on stdio",
	Long: `Start the grow MCP server on stdio transport.

The server exposes grow functionality as MCP tools that AI assistants can
call: get_plan, list_plans, materialize_plan, update_task_status, get_cogs,
get_metrics, get_alerts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if PlanMgr == nil {
			return fmt.Errorf("plan manager not initialized")
		}

		srv := growmcp.NewServer(PlanMgr, Materializer, CostCalc, MetricsCalc, AlertEngine, EventLog, appVersion)

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
