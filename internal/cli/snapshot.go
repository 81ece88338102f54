package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/agent-metrics/internal/report"
)

var (
	snapshotFormat string
	snapshotStdout bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save or print the dashboard snapshot",
	Long: `Compute the dashboard snapshot and save it as JSON to the configured
snapshot path (paths.snapshot), replacing any previous snapshot.

With --stdout the snapshot is printed instead of saved, as JSON or YAML.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAnalyzer(); err != nil {
			return err
		}

		format, err := report.ParseFormat(snapshotFormat)
		if err != nil {
			return err
		}
		if format != report.FormatJSON && !snapshotStdout {
			return fmt.Errorf("--format %s requires --stdout; the snapshot file is always JSON", format)
		}

		snap, err := Analyzer.Snapshot()
		if err != nil {
			return err
		}

		if snapshotStdout {
			return report.Encode(os.Stdout, snap, format)
		}

		if err := report.WriteFile(Analyzer.SnapshotPath(), snap); err != nil {
			return fmt.Errorf("saving dashboard data: %w", err)
		}
		fmt.Printf("Dashboard data saved to: %s\n", Analyzer.SnapshotPath())
		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotFormat, "format", "json", "Output format with --stdout (json, yaml)")
	snapshotCmd.Flags().BoolVar(&snapshotStdout, "stdout", false, "Print the snapshot instead of saving it")
	_ = snapshotCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))
	rootCmd.AddCommand(snapshotCmd)
}
