package observability

import "testing"

func TestAnalyzeAgentPerformance(t *testing.T) {
	events := []Event{
		mustEvent(t, ts, MetricAgentPerformance, "reviewer", "", map[string]any{"duration": 10, "tokens_used": 100, "success": true, "trigger_type": "auto"}),
		mustEvent(t, ts, MetricAgentPerformance, "reviewer", "", map[string]any{"duration": 20, "tokens_used": 200, "success": true, "trigger_type": "manual"}),
		mustEvent(t, ts, MetricAgentPerformance, "reviewer", "", map[string]any{"duration": 30, "tokens_used": 301, "success": false, "trigger_type": "auto"}),
		mustEvent(t, ts, MetricAgentPerformance, "", "", map[string]any{"duration": 5}),
		mustEvent(t, ts, MetricBugCatchRate, "reviewer", "", map[string]any{"total_bugs": 1}),
	}

	stats := AnalyzeAgentPerformance(events)
	if len(stats) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(stats))
	}

	r := stats["reviewer"]
	if r == nil {
		t.Fatal("expected stats for reviewer")
	}
	if r.Activations != 3 {
		t.Errorf("expected 3 activations, got %d", r.Activations)
	}
	if r.AvgDuration() != 20 {
		t.Errorf("expected avg duration 20, got %v", r.AvgDuration())
	}
	if r.AvgTokens() != 200.33 {
		t.Errorf("expected avg tokens 200.33, got %v", r.AvgTokens())
	}
	if r.SuccessRate() != 66.7 {
		t.Errorf("expected success rate 66.7, got %v", r.SuccessRate())
	}
	if r.Successes != 2 || r.Failures != 1 {
		t.Errorf("expected 2 successes and 1 failure, got %d/%d", r.Successes, r.Failures)
	}
	if r.Triggers["auto"] != 2 || r.Triggers["manual"] != 1 {
		t.Errorf("unexpected trigger breakdown: %v", r.Triggers)
	}

	u := stats[UnknownLabel]
	if u == nil {
		t.Fatal("expected events without an agent name under 'unknown'")
	}
	if u.Failures != 1 {
		t.Errorf("expected a missing success field to count as failure, got %d failures", u.Failures)
	}
	if u.Triggers[UnknownLabel] != 1 {
		t.Errorf("expected missing trigger type counted as unknown, got %v", u.Triggers)
	}
}

func TestAgentStats_ZeroActivations(t *testing.T) {
	s := &AgentStats{Triggers: NewCounter()}
	if s.AvgDuration() != 0 || s.AvgTokens() != 0 || s.SuccessRate() != 0 {
		t.Errorf("expected zero derived values, got %v/%v/%v", s.AvgDuration(), s.AvgTokens(), s.SuccessRate())
	}
}

func TestAgentSummary_CopiesTriggers(t *testing.T) {
	s := &AgentStats{Activations: 1, Successes: 1, Triggers: Counter{"auto": 1}}
	sum := s.Summary()
	sum.TriggerBreakdown.Inc("auto")
	if s.Triggers["auto"] != 1 {
		t.Error("summary shares its trigger counter with the stats")
	}
	if sum.SuccessRate != 100 || sum.TotalActivations != 1 {
		t.Errorf("unexpected summary: %+v", sum)
	}
}

func TestAnalyzeQualityIssues(t *testing.T) {
	events := []Event{
		mustEvent(t, ts, MetricQualityGate, "quality", "", map[string]any{"issues_found": 4, "issues_resolved": 3, "issue_severity": "high", "issue_category": "security", "quality_score": 80}),
		mustEvent(t, ts, MetricQualityGate, "quality", "", map[string]any{"issues_found": 2, "issues_resolved": 2, "issue_severity": "low", "quality_score": 91}),
		mustEvent(t, ts, MetricQualityGate, "quality", "", map[string]any{"issues_found": 1, "issue_severity": "high", "issue_category": "style"}),
		mustEvent(t, ts, MetricQualityGate, "quality", "", map[string]any{"quality_score": 0}),
	}

	q := AnalyzeQualityIssues(events)
	if q.TotalIssues != 7 {
		t.Errorf("expected 7 issues, got %v", q.TotalIssues)
	}
	if q.Resolved != 5 {
		t.Errorf("expected 5 resolved, got %v", q.Resolved)
	}
	if q.Unresolved() != 2 {
		t.Errorf("expected 2 unresolved, got %v", q.Unresolved())
	}
	if q.BySeverity["high"] != 2 || q.BySeverity["low"] != 1 || len(q.BySeverity) != 2 {
		t.Errorf("unexpected severity tally: %v", q.BySeverity)
	}
	if q.ByCategory["security"] != 1 || q.ByCategory["style"] != 1 || len(q.ByCategory) != 2 {
		t.Errorf("unexpected category tally: %v", q.ByCategory)
	}
	// A present score of zero still counts: (80 + 91 + 0) / 3.
	if q.AvgQualityScore != 57 {
		t.Errorf("expected avg score 57, got %v", q.AvgQualityScore)
	}
}

func TestAnalyzeQualityIssues_Empty(t *testing.T) {
	q := AnalyzeQualityIssues(nil)
	if q.TotalIssues != 0 || q.Resolved != 0 || q.AvgQualityScore != 0 {
		t.Errorf("expected zero stats, got %+v", q)
	}
	if q.BySeverity == nil || q.ByCategory == nil {
		t.Error("expected initialised counters")
	}
}

func TestCounter(t *testing.T) {
	c := NewCounter()
	for _, l := range []string{"b", "a", "c", "a", "b", "a"} {
		c.Inc(l)
	}
	if c.Total() != 6 {
		t.Errorf("expected total 6, got %d", c.Total())
	}
	got := c.MostCommon()
	want := []LabelCount{{"a", 3}, {"b", 2}, {"c", 1}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
	if c.String() != "{a: 3, b: 2, c: 1}" {
		t.Errorf("unexpected string %q", c.String())
	}
	if NewCounter().String() != "{}" {
		t.Errorf("expected {} for empty counter, got %q", NewCounter().String())
	}

	other := NewCounter()
	for _, l := range []string{"a", "a", "c", "b", "a", "b"} {
		other.Inc(l)
	}
	if other.String() != c.String() {
		t.Error("counter output depends on insertion order")
	}
}

func TestSortedAgentNames(t *testing.T) {
	names := SortedAgentNames(map[string]int{"zeta": 1, "alpha": 2, "unknown": 3})
	want := []string{"alpha", "unknown", "zeta"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}
