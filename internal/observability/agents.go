package observability

import "sort"

// UnknownLabel groups events lacking an agent name or trigger type.
const UnknownLabel = "unknown"

// AgentStats accumulates agent_performance events for one agent. Averages
// and rates are derived on read.
type AgentStats struct {
	Activations   int
	TotalDuration float64
	TotalTokens   float64
	Successes     int
	Failures      int
	Triggers      Counter
}

// AvgDuration is the mean duration per activation, rounded to two decimals.
func (s *AgentStats) AvgDuration() float64 {
	if s.Activations == 0 {
		return 0
	}
	return round2(s.TotalDuration / float64(s.Activations))
}

// AvgTokens is the mean token usage per activation, rounded to two decimals.
func (s *AgentStats) AvgTokens() float64 {
	if s.Activations == 0 {
		return 0
	}
	return round2(s.TotalTokens / float64(s.Activations))
}

// SuccessRate is the percentage of successful activations, rounded to one decimal.
func (s *AgentStats) SuccessRate() float64 {
	if s.Activations == 0 {
		return 0
	}
	return round1(percent(float64(s.Successes), float64(s.Activations)))
}

// Summary returns the serialisable view of the stats.
func (s *AgentStats) Summary() AgentSummary {
	triggers := NewCounter()
	for k, v := range s.Triggers {
		triggers[k] = v
	}
	return AgentSummary{
		TotalActivations: s.Activations,
		AvgDuration:      s.AvgDuration(),
		AvgTokens:        s.AvgTokens(),
		SuccessRate:      s.SuccessRate(),
		TriggerBreakdown: triggers,
	}
}

// AgentSummary is the per-agent entry of the dashboard snapshot.
type AgentSummary struct {
	TotalActivations int     `json:"total_activations" yaml:"total_activations"`
	AvgDuration      float64 `json:"avg_duration" yaml:"avg_duration"`
	AvgTokens        float64 `json:"avg_tokens" yaml:"avg_tokens"`
	SuccessRate      float64 `json:"success_rate" yaml:"success_rate"`
	TriggerBreakdown Counter `json:"trigger_breakdown" yaml:"trigger_breakdown"`
}

// AnalyzeAgentPerformance groups agent_performance events by agent name.
// Events without an agent name are grouped under UnknownLabel.
func AnalyzeAgentPerformance(events []Event) map[string]*AgentStats {
	stats := make(map[string]*AgentStats)
	for _, e := range ofMetric(events, MetricAgentPerformance) {
		name := e.AgentName
		if name == "" {
			name = UnknownLabel
		}
		s, ok := stats[name]
		if !ok {
			s = &AgentStats{Triggers: NewCounter()}
			stats[name] = s
		}

		p := payloadAs[AgentPerformancePayload](e)
		s.Activations++
		s.TotalDuration += p.Duration
		s.TotalTokens += p.TokensUsed
		if p.Success {
			s.Successes++
		} else {
			s.Failures++
		}
		trigger := p.TriggerType
		if trigger == "" {
			trigger = UnknownLabel
		}
		s.Triggers.Inc(trigger)
	}
	return stats
}

// AgentSummaries converts AnalyzeAgentPerformance output for the snapshot.
func AgentSummaries(stats map[string]*AgentStats) map[string]AgentSummary {
	out := make(map[string]AgentSummary, len(stats))
	for name, s := range stats {
		out[name] = s.Summary()
	}
	return out
}

// SortedAgentNames returns the agent names in a stable display order.
func SortedAgentNames[V any](agents map[string]V) []string {
	names := make([]string, 0, len(agents))
	for name := range agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
