package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "agent-metrics",
	Short: "Analyze AI-assistant workflow metrics",
	Long: `agent-metrics reads the JSONL metrics log written by AI agents and hooks,
prints a report of the primary success metrics, agent performance, and
quality gate findings, and saves a JSON snapshot for dashboards.

Run without arguments to print the report and save the snapshot.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAnalyzer(); err != nil {
			return err
		}

		path, err := Analyzer.Run(os.Stdout)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Printf("Dashboard data saved to: %s\n", path)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("agent-metrics %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func errNotInitialized(what string) error {
	return fmt.Errorf("%s not initialized", what)
}
