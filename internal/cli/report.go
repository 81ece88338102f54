package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the metrics report without saving a snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAnalyzer(); err != nil {
			return err
		}
		_, err := Analyzer.Report(os.Stdout)
		return err
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
