package observability

import (
	"fmt"
	"sort"
	"time"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert conditions, one per check the engine runs.
const (
	ConditionMetricBelowTarget = "metric_below_target"
	ConditionAgentSuccessLow   = "agent_success_rate_low"
	ConditionQualityUnresolved = "quality_issues_unresolved"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts should fire.
type AlertThresholds struct {
	// HighGap and MediumGap are target shortfalls, in metric points.
	HighGap             float64 `yaml:"high_gap" json:"high_gap"`
	MediumGap           float64 `yaml:"medium_gap" json:"medium_gap"`
	MinAgentSuccessRate float64 `yaml:"min_agent_success_rate" json:"min_agent_success_rate"`
}

// DefaultAlertThresholds returns the default alert thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		HighGap:             20,
		MediumGap:           10,
		MinAgentSuccessRate: 80,
	}
}

// AlertEngine evaluates alert conditions against a snapshot.
type AlertEngine interface {
	Evaluate(snap *Snapshot) []Alert
}

type alertEngine struct {
	thresholds AlertThresholds
}

// NewAlertEngine creates a new AlertEngine with the given thresholds.
func NewAlertEngine(thresholds AlertThresholds) AlertEngine {
	return &alertEngine{thresholds: thresholds}
}

// Evaluate checks every alert condition. Alerts are ordered by severity,
// then by ID.
func (ae *alertEngine) Evaluate(snap *Snapshot) []Alert {
	if snap == nil {
		return nil
	}
	var alerts []Alert
	alerts = append(alerts, ae.checkMetricTargets(snap)...)
	alerts = append(alerts, ae.checkAgentSuccess(snap)...)
	alerts = append(alerts, ae.checkUnresolvedIssues(snap)...)

	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := SeverityRank(alerts[i].Severity), SeverityRank(alerts[j].Severity)
		if ri != rj {
			return ri < rj
		}
		return alerts[i].ID < alerts[j].ID
	})
	return alerts
}

// checkMetricTargets raises one alert per primary metric below its target.
func (ae *alertEngine) checkMetricTargets(snap *Snapshot) []Alert {
	var alerts []Alert
	for _, km := range snap.Metrics.All() {
		m := km.Result
		if m.Status != StatusBelowTarget {
			continue
		}
		gap := m.Gap()
		severity := SeverityLow
		switch {
		case gap >= ae.thresholds.HighGap:
			severity = SeverityHigh
		case gap >= ae.thresholds.MediumGap:
			severity = SeverityMedium
		}
		alerts = append(alerts, Alert{
			ID:          "below-target-" + km.Key,
			Condition:   ConditionMetricBelowTarget,
			Severity:    severity,
			Message:     fmt.Sprintf("%s is %s%s, %s points below the %s%s target", m.Name, FormatFloat(m.Value), m.Unit, FormatFloat(gap), FormatFloat(m.Target), m.Unit),
			TriggeredAt: snap.Timestamp,
		})
	}
	return alerts
}

// checkAgentSuccess flags agents whose success rate is below the threshold.
func (ae *alertEngine) checkAgentSuccess(snap *Snapshot) []Alert {
	var alerts []Alert
	for _, name := range SortedAgentNames(snap.Agents) {
		a := snap.Agents[name]
		if a.TotalActivations == 0 || a.SuccessRate >= ae.thresholds.MinAgentSuccessRate {
			continue
		}
		alerts = append(alerts, Alert{
			ID:          "agent-success-" + name,
			Condition:   ConditionAgentSuccessLow,
			Severity:    SeverityMedium,
			Message:     fmt.Sprintf("agent %s succeeded in %s%% of %d activations (minimum %s%%)", name, FormatFloat(a.SuccessRate), a.TotalActivations, FormatFloat(ae.thresholds.MinAgentSuccessRate)),
			TriggeredAt: snap.Timestamp,
		})
	}
	return alerts
}

// checkUnresolvedIssues flags quality gate issues that were found but not resolved.
func (ae *alertEngine) checkUnresolvedIssues(snap *Snapshot) []Alert {
	open := snap.Quality.Unresolved()
	if open == 0 {
		return nil
	}
	return []Alert{{
		ID:          "quality-unresolved",
		Condition:   ConditionQualityUnresolved,
		Severity:    SeverityLow,
		Message:     fmt.Sprintf("%s of %s quality gate issues are unresolved", FormatNumber(open), FormatNumber(snap.Quality.TotalIssues)),
		TriggeredAt: snap.Timestamp,
	}}
}

// SeverityRank orders severities from most to least urgent.
func SeverityRank(s AlertSeverity) int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	default:
		return 3
	}
}
