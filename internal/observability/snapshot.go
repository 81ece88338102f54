package observability

import "time"

// NotAvailable marks an empty date range.
const NotAvailable = "N/A"

// DateRange holds the raw timestamps of the earliest and latest events.
type DateRange struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Summary describes the loaded event set.
type Summary struct {
	TotalEvents int       `json:"total_events" yaml:"total_events"`
	DateRange   DateRange `json:"date_range" yaml:"date_range"`
}

// PrimaryMetrics holds the five primary metric results in report order.
type PrimaryMetrics struct {
	BugCatchRate         MetricResult `json:"bug_catch_rate" yaml:"bug_catch_rate"`
	PatternAdherence     MetricResult `json:"pattern_adherence" yaml:"pattern_adherence"`
	RedirectionReduction MetricResult `json:"redirection_reduction" yaml:"redirection_reduction"`
	DebugMethodology     MetricResult `json:"debug_methodology" yaml:"debug_methodology"`
	SkillActivation      MetricResult `json:"skill_activation" yaml:"skill_activation"`
}

// KeyedMetric pairs a metric result with its snapshot key.
type KeyedMetric struct {
	Key    string
	Result MetricResult
}

// All returns the metrics in report order.
func (m PrimaryMetrics) All() []KeyedMetric {
	return []KeyedMetric{
		{Key: "bug_catch_rate", Result: m.BugCatchRate},
		{Key: "pattern_adherence", Result: m.PatternAdherence},
		{Key: "redirection_reduction", Result: m.RedirectionReduction},
		{Key: "debug_methodology", Result: m.DebugMethodology},
		{Key: "skill_activation", Result: m.SkillActivation},
	}
}

// Lookup finds a metric by snapshot key.
func (m PrimaryMetrics) Lookup(key string) (MetricResult, bool) {
	for _, km := range m.All() {
		if km.Key == key {
			return km.Result, true
		}
	}
	return MetricResult{}, false
}

// CalculatePrimaryMetrics runs the five primary reducers.
func CalculatePrimaryMetrics(events []Event, redirectionBaseline float64) PrimaryMetrics {
	return PrimaryMetrics{
		BugCatchRate:         BugCatchRate(events),
		PatternAdherence:     PatternAdherenceRate(events),
		RedirectionReduction: RedirectionReduction(events, redirectionBaseline),
		DebugMethodology:     DebugMethodologyAdherence(events),
		SkillActivation:      SkillActivationRate(events),
	}
}

// Snapshot is the dashboard document. Everything except Timestamp is
// derived from the events alone.
type Snapshot struct {
	Timestamp time.Time               `json:"timestamp" yaml:"timestamp"`
	Summary   Summary                 `json:"summary" yaml:"summary"`
	Metrics   PrimaryMetrics          `json:"metrics" yaml:"metrics"`
	Agents    map[string]AgentSummary `json:"agents" yaml:"agents"`
	Quality   QualityIssueStats       `json:"quality" yaml:"quality"`
}

// BuildSnapshot computes every result over events. generatedAt becomes the
// snapshot timestamp.
func BuildSnapshot(events []Event, redirectionBaseline float64, generatedAt time.Time) *Snapshot {
	return &Snapshot{
		Timestamp: generatedAt,
		Summary: Summary{
			TotalEvents: len(events),
			DateRange:   EventDateRange(events),
		},
		Metrics: CalculatePrimaryMetrics(events, redirectionBaseline),
		Agents:  AgentSummaries(AnalyzeAgentPerformance(events)),
		Quality: AnalyzeQualityIssues(events),
	}
}

// EventDateRange returns the raw timestamps of the earliest and latest
// events. Events whose timestamp does not parse are ignored.
func EventDateRange(events []Event) DateRange {
	var (
		minT, maxT     time.Time
		minRaw, maxRaw string
		found          bool
	)
	for _, e := range events {
		t, err := ParseTimestamp(e.Timestamp)
		if err != nil {
			continue
		}
		if !found || t.Before(minT) {
			minT, minRaw = t, e.Timestamp
		}
		if !found || t.After(maxT) {
			maxT, maxRaw = t, e.Timestamp
		}
		found = true
	}
	if !found {
		return DateRange{Start: NotAvailable, End: NotAvailable}
	}
	return DateRange{Start: minRaw, End: maxRaw}
}
