package observability

import (
	"strings"
	"testing"
	"time"
)

func TestAlertEngine_Evaluate(t *testing.T) {
	now := time.Date(2025, 11, 19, 12, 0, 0, 0, time.UTC)
	events := []Event{
		// 50% bug catch rate: 40 points short.
		mustEvent(t, ts, MetricBugCatchRate, "", "", map[string]any{"total_bugs": 10, "bugs_caught_pre_execution": 5}),
		// 80% pattern adherence: 10 points short.
		mustEvent(t, ts, MetricPatternAdherence, "", "", map[string]any{"tasks_with_applicable_pattern": 10, "tasks_following_pattern": 8}),
		// 80% skill activation: 5 points short.
		mustEvent(t, ts, MetricSkillActivation, "", "", map[string]any{"appropriate_activations": 4, "missed_activations": 1}),
		mustEvent(t, ts, MetricAgentPerformance, "flaky", "", map[string]any{"success": false}),
		mustEvent(t, ts, MetricAgentPerformance, "solid", "", map[string]any{"success": true}),
		mustEvent(t, ts, MetricQualityGate, "", "", map[string]any{"issues_found": 5, "issues_resolved": 2}),
	}
	snap := BuildSnapshot(events, DefaultRedirectionBaseline, now)

	alerts := NewAlertEngine(DefaultAlertThresholds()).Evaluate(snap)

	wantIDs := []string{
		"below-target-bug_catch_rate",
		"agent-success-flaky",
		"below-target-pattern_adherence",
		"below-target-skill_activation",
		"quality-unresolved",
	}
	if len(alerts) != len(wantIDs) {
		t.Fatalf("expected %d alerts, got %d: %+v", len(wantIDs), len(alerts), alerts)
	}
	for i, id := range wantIDs {
		if alerts[i].ID != id {
			t.Errorf("alert %d: expected %s, got %s", i, id, alerts[i].ID)
		}
		if !alerts[i].TriggeredAt.Equal(now) {
			t.Errorf("alert %s: expected triggered at snapshot time", alerts[i].ID)
		}
	}

	if alerts[0].Severity != SeverityHigh {
		t.Errorf("expected high severity for a 40 point gap, got %s", alerts[0].Severity)
	}
	if !strings.Contains(alerts[0].Message, "Bug Catch Rate is 50.0%, 40.0 points below the 90.0% target") {
		t.Errorf("unexpected message: %s", alerts[0].Message)
	}
	if alerts[2].Severity != SeverityMedium {
		t.Errorf("expected medium severity for a 10 point gap, got %s", alerts[2].Severity)
	}
	if alerts[3].Severity != SeverityLow {
		t.Errorf("expected low severity for a 5 point gap, got %s", alerts[3].Severity)
	}
	if alerts[4].Message != "3 of 5 quality gate issues are unresolved" {
		t.Errorf("unexpected message: %s", alerts[4].Message)
	}
}

func TestAlertEngine_NoDataRaisesNothing(t *testing.T) {
	snap := BuildSnapshot(nil, DefaultRedirectionBaseline, time.Now())
	if alerts := NewAlertEngine(DefaultAlertThresholds()).Evaluate(snap); len(alerts) != 0 {
		t.Errorf("expected no alerts for an empty snapshot, got %+v", alerts)
	}
	if alerts := NewAlertEngine(DefaultAlertThresholds()).Evaluate(nil); alerts != nil {
		t.Errorf("expected nil for a nil snapshot, got %+v", alerts)
	}
}

func TestSeverityRank(t *testing.T) {
	if !(SeverityRank(SeverityHigh) < SeverityRank(SeverityMedium) &&
		SeverityRank(SeverityMedium) < SeverityRank(SeverityLow) &&
		SeverityRank(SeverityLow) < SeverityRank("other")) {
		t.Error("severity ranks out of order")
	}
}
