package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/agent-metrics/internal/observability"
)

var (
	recordMetric  string
	recordAgent   string
	recordSession string
	recordData    string
	recordAt      string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Append one event to the metrics log",
	Long: `Append a single event to the metrics log. Agents and hooks normally write
events themselves; this is for manual entries and scripts.

Example:
  agent-metrics record --metric bug_catch_rate \
    --data '{"total_bugs": 3, "bugs_caught_pre_execution": 2}'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAnalyzer(); err != nil {
			return err
		}
		if recordMetric == "" {
			return fmt.Errorf("--metric is required")
		}

		var data map[string]any
		if recordData != "" {
			if err := json.Unmarshal([]byte(recordData), &data); err != nil {
				return fmt.Errorf("parsing --data as a JSON object: %w", err)
			}
		}

		timestamp := recordAt
		if timestamp == "" {
			timestamp = time.Now().UTC().Format(time.RFC3339)
		} else if _, err := observability.ParseTimestamp(timestamp); err != nil {
			return fmt.Errorf("parsing --at: %w", err)
		}

		event, err := observability.NewEvent(timestamp, recordMetric, recordAgent, recordSession, data)
		if err != nil {
			return fmt.Errorf("building event: %w", err)
		}
		if err := Analyzer.Record(event); err != nil {
			return err
		}

		fmt.Printf("Recorded %s event in %s\n", recordMetric, Analyzer.EventsPath())
		return nil
	},
}

func init() {
	recordCmd.Flags().StringVar(&recordMetric, "metric", "", "Metric name (e.g. bug_catch_rate)")
	recordCmd.Flags().StringVar(&recordAgent, "agent", "", "Agent name")
	recordCmd.Flags().StringVar(&recordSession, "session", "", "Session ID")
	recordCmd.Flags().StringVar(&recordData, "data", "", "Event data as a JSON object")
	recordCmd.Flags().StringVar(&recordAt, "at", "", "Event timestamp (default: now, RFC 3339)")
	_ = recordCmd.RegisterFlagCompletionFunc("metric", completeMetricFlag)
	rootCmd.AddCommand(recordCmd)
}
