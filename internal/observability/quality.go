package observability

// QualityIssueStats summarises quality_gate_effectiveness events.
type QualityIssueStats struct {
	TotalIssues     float64 `json:"total_issues" yaml:"total_issues"`
	BySeverity      Counter `json:"by_severity" yaml:"by_severity"`
	ByCategory      Counter `json:"by_category" yaml:"by_category"`
	Resolved        float64 `json:"resolved" yaml:"resolved"`
	AvgQualityScore float64 `json:"avg_quality_score" yaml:"avg_quality_score"`
}

// Unresolved returns the number of found issues not yet resolved.
func (q QualityIssueStats) Unresolved() float64 {
	if q.Resolved >= q.TotalIssues {
		return 0
	}
	return q.TotalIssues - q.Resolved
}

// AnalyzeQualityIssues totals issues, tallies severities and categories, and
// averages the quality scores that are present. Events without a severity or
// category label are not counted in that tally.
func AnalyzeQualityIssues(events []Event) QualityIssueStats {
	stats := QualityIssueStats{
		BySeverity: NewCounter(),
		ByCategory: NewCounter(),
	}

	var scoreSum float64
	scores := 0
	for _, e := range ofMetric(events, MetricQualityGate) {
		p := payloadAs[QualityGatePayload](e)
		stats.TotalIssues += p.IssuesFound
		stats.Resolved += p.IssuesResolved
		if p.IssueSeverity != "" {
			stats.BySeverity.Inc(p.IssueSeverity)
		}
		if p.IssueCategory != "" {
			stats.ByCategory.Inc(p.IssueCategory)
		}
		if p.QualityScore != nil {
			scoreSum += *p.QualityScore
			scores++
		}
	}

	if scores > 0 {
		stats.AvgQualityScore = round1(scoreSum / float64(scores))
	}
	return stats
}
