package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Metric names recognised by the reducers.
const (
	MetricBugCatchRate         = "bug_catch_rate"
	MetricPatternAdherence     = "pattern_adherence_rate"
	MetricRedirectionFrequency = "redirection_frequency"
	MetricDebugMethodology     = "debug_methodology_adherence"
	MetricSkillActivation      = "skill_activation_rate"
	MetricAgentPerformance     = "agent_performance"
	MetricQualityGate          = "quality_gate_effectiveness"
)

// Payload is the typed data of an event. The concrete type is chosen by the
// event's metric name; missing fields keep their zero values.
type Payload interface {
	metric() string
}

// BugCatchPayload is the data of a bug_catch_rate event.
type BugCatchPayload struct {
	TotalBugs              float64 `json:"total_bugs"`
	BugsCaughtPreExecution float64 `json:"bugs_caught_pre_execution"`
}

// PatternAdherencePayload is the data of a pattern_adherence_rate event.
type PatternAdherencePayload struct {
	TasksWithApplicablePattern float64 `json:"tasks_with_applicable_pattern"`
	TasksFollowingPattern      float64 `json:"tasks_following_pattern"`
}

// DebugSessionPayload is the data of a debug_methodology_adherence event.
// Each event is one debug session.
type DebugSessionPayload struct {
	StepsCompleted []string `json:"steps_completed"`
}

// SkillActivationPayload is the data of a skill_activation_rate event.
type SkillActivationPayload struct {
	AppropriateActivations float64 `json:"appropriate_activations"`
	MissedActivations      float64 `json:"missed_activations"`
}

// AgentPerformancePayload is the data of an agent_performance event.
type AgentPerformancePayload struct {
	Duration    float64 `json:"duration"`
	TokensUsed  float64 `json:"tokens_used"`
	Success     bool    `json:"success"`
	TriggerType string  `json:"trigger_type"`
}

// QualityGatePayload is the data of a quality_gate_effectiveness event.
type QualityGatePayload struct {
	IssuesFound    float64 `json:"issues_found"`
	IssuesResolved float64 `json:"issues_resolved"`
	IssueSeverity  string  `json:"issue_severity"`
	IssueCategory  string  `json:"issue_category"`
	// QualityScore is nil when the event reports no score.
	QualityScore *float64 `json:"quality_score"`
}

// GenericPayload is used for redirection events and unknown metric names,
// which carry no fields the reducers read.
type GenericPayload struct {
	Name string `json:"-"`
}

func (*BugCatchPayload) metric() string         { return MetricBugCatchRate }
func (*PatternAdherencePayload) metric() string { return MetricPatternAdherence }
func (*DebugSessionPayload) metric() string     { return MetricDebugMethodology }
func (*SkillActivationPayload) metric() string  { return MetricSkillActivation }
func (*AgentPerformancePayload) metric() string { return MetricAgentPerformance }
func (*QualityGatePayload) metric() string      { return MetricQualityGate }
func (p *GenericPayload) metric() string        { return p.Name }

func newPayload(metricName string) Payload {
	switch metricName {
	case MetricBugCatchRate:
		return &BugCatchPayload{}
	case MetricPatternAdherence:
		return &PatternAdherencePayload{}
	case MetricDebugMethodology:
		return &DebugSessionPayload{}
	case MetricSkillActivation:
		return &SkillActivationPayload{}
	case MetricAgentPerformance:
		return &AgentPerformancePayload{}
	case MetricQualityGate:
		return &QualityGatePayload{}
	default:
		return &GenericPayload{Name: metricName}
	}
}

// trendSample holds the generic value field read by trend analysis.
type trendSample struct {
	Value *float64 `json:"value"`
}

// decodePayload types the raw data object for metricName. A field with an
// unexpected JSON type is left at its zero value while the other fields are
// kept, and the first such mismatch is returned alongside the payload.
func decodePayload(metricName string, raw json.RawMessage) (Payload, float64, error) {
	p := newPayload(metricName)
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return p, 0, nil
	}
	if trimmed[0] != '{' {
		return p, 0, fmt.Errorf("data is not an object")
	}

	var sample trendSample
	sampleErr := json.Unmarshal(trimmed, &sample)
	value := 0.0
	if sample.Value != nil {
		value = *sample.Value
	}

	if err := json.Unmarshal(trimmed, p); err != nil {
		// encoding/json skips a mistyped field and still fills the rest.
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return newPayload(metricName), value, err
		}
		return p, value, err
	}
	if sampleErr != nil {
		return p, value, fmt.Errorf("value: %w", sampleErr)
	}
	return p, value, nil
}

// payloadAs returns the event payload as T, or the zero T when the event
// carries a different variant.
func payloadAs[T any](e Event) T {
	if p, ok := any(e.Payload).(*T); ok && p != nil {
		return *p
	}
	var zero T
	return zero
}
