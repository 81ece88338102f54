package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/agent-metrics/internal/observability"
)

var agentsJSON bool

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Show per-agent performance",
	Long: `Summarize agent_performance events per agent: activations, average
duration and tokens, success rate, and how the agent was triggered.

Events without an agent name are grouped under "unknown".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAnalyzer(); err != nil {
			return err
		}

		snap, err := Analyzer.Snapshot()
		if err != nil {
			return err
		}

		if agentsJSON {
			data, err := json.MarshalIndent(snap.Agents, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting agents as JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if len(snap.Agents) == 0 {
			fmt.Println("No agent activity recorded.")
			return nil
		}

		fmt.Printf("%-24s %11s %12s %12s %9s  %s\n", "AGENT", "ACTIVATIONS", "AVG DURATION", "AVG TOKENS", "SUCCESS", "TRIGGERS")
		for _, name := range observability.SortedAgentNames(snap.Agents) {
			a := snap.Agents[name]
			fmt.Printf("%-24s %11d %11ss %12s %8s%%  %s\n",
				name,
				a.TotalActivations,
				observability.FormatFloat(a.AvgDuration),
				observability.FormatFloat(a.AvgTokens),
				observability.FormatFloat(a.SuccessRate),
				a.TriggerBreakdown,
			)
		}
		return nil
	},
}

func init() {
	agentsCmd.Flags().BoolVar(&agentsJSON, "json", false, "Output agent stats as JSON")
	rootCmd.AddCommand(agentsCmd)
}
