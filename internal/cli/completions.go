package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/agent-metrics/internal/observability"
)

// knownMetrics lists the metric names agents are expected to log, with a
// short description for shells that show one.
var knownMetrics = []struct {
	name string
	desc string
}{
	{observability.MetricBugCatchRate, "Bugs caught before execution"},
	{observability.MetricPatternAdherence, "Tasks following an applicable pattern"},
	{observability.MetricRedirectionFrequency, "One event per user redirection"},
	{observability.MetricDebugMethodology, "Debug session with completed steps"},
	{observability.MetricSkillActivation, "Appropriate and missed skill activations"},
	{observability.MetricAgentPerformance, "One agent activation"},
	{observability.MetricQualityGate, "Quality gate findings"},
}

// completeMetricNames completes a metric name argument.
func completeMetricNames(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, m := range knownMetrics {
		if strings.HasPrefix(m.name, toComplete) {
			out = append(out, m.name+"\t"+m.desc)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeMetricFlag completes a --metric flag value.
func completeMetricFlag(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return completeMetricNames(cmd, nil, toComplete)
}
