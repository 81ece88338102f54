package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var trendWindow int

var trendCmd = &cobra.Command{
	Use:   "trend <metric>",
	Short: "Classify the recent trend of a metric",
	Long: `Compare the mean data.value of a metric's events in the first and second
half of a trailing window.

The result is improving or declining when the later half moves by more than
5%, stable otherwise, and absent when fewer than two events fall in the
window. The window defaults to trend.window_days.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeMetricNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAnalyzer(); err != nil {
			return err
		}
		if trendWindow < 0 {
			return fmt.Errorf("--window must be positive, got %d", trendWindow)
		}

		window := trendWindow
		if window == 0 && Config != nil {
			window = Config.Trend.WindowDays
		}

		trend, err := Analyzer.Trend(args[0], window)
		if err != nil {
			return err
		}

		if window > 0 {
			fmt.Printf("%s: %s (last %d days)\n", args[0], trend, window)
		} else {
			fmt.Printf("%s: %s\n", args[0], trend)
		}
		return nil
	},
}

func init() {
	trendCmd.Flags().IntVar(&trendWindow, "window", 0, "Trailing window in days (default: trend.window_days)")
	rootCmd.AddCommand(trendCmd)
}
