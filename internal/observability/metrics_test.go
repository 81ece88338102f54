package observability

import (
	"testing"
)

// mustEvent builds an event or fails the test.
func mustEvent(t testing.TB, timestamp, metric, agent, session string, data map[string]any) Event {
	t.Helper()
	e, err := NewEvent(timestamp, metric, agent, session, data)
	if err != nil {
		t.Fatalf("building event: %v", err)
	}
	return e
}

const ts = "2025-11-19T10:00:00Z"

func TestBugCatchRate(t *testing.T) {
	events := []Event{
		mustEvent(t, ts, MetricBugCatchRate, "", "", map[string]any{"total_bugs": 10, "bugs_caught_pre_execution": 9}),
		mustEvent(t, ts, MetricBugCatchRate, "", "", map[string]any{"total_bugs": 5, "bugs_caught_pre_execution": 5}),
		mustEvent(t, ts, MetricPatternAdherence, "", "", map[string]any{"tasks_with_applicable_pattern": 100}),
	}

	r := BugCatchRate(events)
	if r.Value != 93.3 {
		t.Errorf("expected value 93.3, got %v", r.Value)
	}
	if r.Status != StatusAboveTarget {
		t.Errorf("expected status above_target, got %s", r.Status)
	}
	if r.DataPoints != 2 {
		t.Errorf("expected 2 data points, got %d", r.DataPoints)
	}
	if r.Target != 90 || r.Unit != "%" || r.Name != "Bug Catch Rate" {
		t.Errorf("unexpected presentation fields: %+v", r)
	}
	if r.Trend != TrendAbsent {
		t.Errorf("expected no trend, got %s", r.Trend)
	}
}

func TestBugCatchRate_BelowTarget(t *testing.T) {
	events := []Event{
		mustEvent(t, ts, MetricBugCatchRate, "", "", map[string]any{"total_bugs": 10, "bugs_caught_pre_execution": 7}),
	}
	r := BugCatchRate(events)
	if r.Value != 70 {
		t.Errorf("expected value 70, got %v", r.Value)
	}
	if r.Status != StatusBelowTarget {
		t.Errorf("expected below_target, got %s", r.Status)
	}
	if r.Gap() != 20 {
		t.Errorf("expected gap 20, got %v", r.Gap())
	}
}

func TestRateReducers_ZeroDenominator(t *testing.T) {
	events := []Event{
		mustEvent(t, ts, MetricBugCatchRate, "", "", map[string]any{}),
		mustEvent(t, ts, MetricPatternAdherence, "", "", nil),
		mustEvent(t, ts, MetricSkillActivation, "", "", map[string]any{"appropriate_activations": 0, "missed_activations": 0}),
	}

	for _, r := range []MetricResult{BugCatchRate(events), PatternAdherenceRate(events), SkillActivationRate(events)} {
		if r.Value != 0 {
			t.Errorf("%s: expected value 0, got %v", r.Name, r.Value)
		}
		if r.Status != StatusBelowTarget {
			t.Errorf("%s: expected below_target, got %s", r.Name, r.Status)
		}
		if r.DataPoints != 1 {
			t.Errorf("%s: expected 1 data point, got %d", r.Name, r.DataPoints)
		}
	}
}

func TestReducers_NoData(t *testing.T) {
	events := []Event{
		mustEvent(t, ts, MetricAgentPerformance, "reviewer", "", map[string]any{"duration": 3}),
	}

	results := CalculatePrimaryMetrics(events, DefaultRedirectionBaseline).All()
	if len(results) != 5 {
		t.Fatalf("expected 5 primary metrics, got %d", len(results))
	}
	for _, km := range results {
		r := km.Result
		if r.Status != StatusNoData {
			t.Errorf("%s: expected no_data, got %s", km.Key, r.Status)
		}
		if r.Value != 0 || r.DataPoints != 0 {
			t.Errorf("%s: expected zero value and data points, got %v/%d", km.Key, r.Value, r.DataPoints)
		}
	}
}

func TestPatternAdherenceRate(t *testing.T) {
	events := []Event{
		mustEvent(t, ts, MetricPatternAdherence, "", "", map[string]any{"tasks_with_applicable_pattern": 20, "tasks_following_pattern": 17}),
	}
	r := PatternAdherenceRate(events)
	if r.Value != 85 {
		t.Errorf("expected 85, got %v", r.Value)
	}
	if r.Status != StatusBelowTarget {
		t.Errorf("expected below_target, got %s", r.Status)
	}
}

func TestSkillActivationRate(t *testing.T) {
	events := []Event{
		mustEvent(t, ts, MetricSkillActivation, "", "", map[string]any{"appropriate_activations": 8, "missed_activations": 1}),
		mustEvent(t, ts, MetricSkillActivation, "", "", map[string]any{"appropriate_activations": 9, "missed_activations": 2}),
	}
	r := SkillActivationRate(events)
	if r.Value != 85 {
		t.Errorf("expected 85 (17/20), got %v", r.Value)
	}
	if r.Status != StatusAboveTarget {
		t.Errorf("expected above_target at exactly the target, got %s", r.Status)
	}
}

func TestDebugMethodologyAdherence(t *testing.T) {
	all := []any{"verify", "fix", "test", "hypothesis", "isolate", "reproduce"}
	missingOne := []any{"reproduce", "isolate", "hypothesis", "test", "fix"}
	withExtra := []any{"reproduce", "isolate", "hypothesis", "test", "fix", "verify", "document"}

	events := []Event{
		mustEvent(t, ts, MetricDebugMethodology, "", "s1", map[string]any{"steps_completed": all}),
		mustEvent(t, ts, MetricDebugMethodology, "", "s2", map[string]any{"steps_completed": missingOne}),
		mustEvent(t, ts, MetricDebugMethodology, "", "s3", map[string]any{"steps_completed": withExtra}),
		mustEvent(t, ts, MetricDebugMethodology, "", "s4", map[string]any{}),
	}

	r := DebugMethodologyAdherence(events)
	if r.Value != 50 {
		t.Errorf("expected 50 (2 of 4 complete), got %v", r.Value)
	}
	if r.DataPoints != 4 {
		t.Errorf("expected 4 data points, got %d", r.DataPoints)
	}
	if r.Status != StatusBelowTarget {
		t.Errorf("expected below_target, got %s", r.Status)
	}
}

func TestRedirectionReduction(t *testing.T) {
	var events []Event
	for i := 0; i < 3; i++ {
		events = append(events, mustEvent(t, ts, MetricRedirectionFrequency, "", "a", nil))
	}
	for i := 0; i < 5; i++ {
		events = append(events, mustEvent(t, ts, MetricRedirectionFrequency, "", "b", nil))
	}

	r := RedirectionReduction(events, 10)
	if r.Value != 60 {
		t.Errorf("expected 60, got %v", r.Value)
	}
	if r.Status != StatusAboveTarget {
		t.Errorf("expected above_target, got %s", r.Status)
	}
	if r.DataPoints != 8 {
		t.Errorf("expected 8 data points, got %d", r.DataPoints)
	}
	if r.Unit != "% reduction" {
		t.Errorf("expected unit '%% reduction', got %q", r.Unit)
	}
}

func TestRedirectionReduction_ZeroBaseline(t *testing.T) {
	events := []Event{mustEvent(t, ts, MetricRedirectionFrequency, "", "a", nil)}
	r := RedirectionReduction(events, 0)
	if r.Value != 0 {
		t.Errorf("expected 0 with zero baseline, got %v", r.Value)
	}
	if r.Status != StatusBelowTarget {
		t.Errorf("expected below_target, got %s", r.Status)
	}
}

func TestRedirectionReduction_WorseThanBaseline(t *testing.T) {
	var events []Event
	for i := 0; i < 12; i++ {
		events = append(events, mustEvent(t, ts, MetricRedirectionFrequency, "", "a", nil))
	}
	r := RedirectionReduction(events, 10)
	if r.Value != -20 {
		t.Errorf("expected -20, got %v", r.Value)
	}
}

func TestScored_StatusFollowsRoundedValue(t *testing.T) {
	r := scored(bugCatchDef, 89.96, 1)
	if r.Value != 90 {
		t.Fatalf("expected rounded value 90, got %v", r.Value)
	}
	if r.Status != StatusAboveTarget {
		t.Errorf("expected above_target for rounded value at target, got %s", r.Status)
	}
}

func TestTrend_String(t *testing.T) {
	if TrendAbsent.String() != "absent" {
		t.Errorf("expected 'absent', got %q", TrendAbsent.String())
	}
	if TrendImproving.String() != "improving" {
		t.Errorf("expected 'improving', got %q", TrendImproving.String())
	}
}
