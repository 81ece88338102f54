package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var alertsNotify bool

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show metrics that need attention",
	Long: `Evaluate alert conditions against the current snapshot and display any
triggered alerts.

Alerts fire for primary metrics below target, agents whose success rate is
under alerts.min_agent_success_rate, and unresolved quality gate issues.
With --notify the alerts are also posted to the configured Slack webhook.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config != nil && !Config.Alerts.Enabled {
			fmt.Println("Alerts are disabled (alerts.enabled is false).")
			return nil
		}
		if AlertEngine == nil {
			return errNotInitialized("alert engine")
		}
		if err := requireAnalyzer(); err != nil {
			return err
		}
		if alertsNotify && Notifier == nil {
			return fmt.Errorf("no notifier configured (set notifications.slack.webhook_url)")
		}

		snap, err := Analyzer.Snapshot()
		if err != nil {
			return err
		}
		alerts := AlertEngine.Evaluate(snap)

		if len(alerts) == 0 {
			fmt.Println("No active alerts.")
			return nil
		}

		fmt.Printf("%d active alert(s):\n\n", len(alerts))
		for _, alert := range alerts {
			severity := strings.ToUpper(string(alert.Severity))
			fmt.Printf("  [%s] %s\n", severity, alert.Message)
			fmt.Printf("         %s\n\n", alert.ID)
		}

		if alertsNotify {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := Notifier.Notify(ctx, alerts); err != nil {
				return fmt.Errorf("sending notification: %w", err)
			}
			fmt.Printf("Sent %d alert(s) to Slack.\n", len(alerts))
		}
		return nil
	},
}

func init() {
	alertsCmd.Flags().BoolVar(&alertsNotify, "notify", false, "Post alerts to the configured Slack webhook")
	rootCmd.AddCommand(alertsCmd)
}
