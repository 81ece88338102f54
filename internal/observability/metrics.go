package observability

import (
	"encoding/json"
	"math"
)

// Status is the verdict of a metric against its target.
type Status string

const (
	StatusAboveTarget Status = "above_target"
	StatusBelowTarget Status = "below_target"
	StatusOnTarget    Status = "on_target"
	StatusNoData      Status = "no_data"
)

// Trend is the direction of a metric over a time window. TrendAbsent means
// there was not enough data for a signal.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
	TrendAbsent    Trend = ""
)

// String returns "absent" for TrendAbsent.
func (t Trend) String() string {
	if t == TrendAbsent {
		return "absent"
	}
	return string(t)
}

// MarshalJSON encodes TrendAbsent as null.
func (t Trend) MarshalJSON() ([]byte, error) {
	if t == TrendAbsent {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

// MarshalYAML encodes TrendAbsent as null.
func (t Trend) MarshalYAML() (any, error) {
	if t == TrendAbsent {
		return nil, nil
	}
	return string(t), nil
}

// MetricResult is the output of one reducer.
type MetricResult struct {
	Name       string  `json:"name" yaml:"name"`
	Value      float64 `json:"value" yaml:"value"`
	Target     float64 `json:"target" yaml:"target"`
	Unit       string  `json:"unit" yaml:"unit"`
	Status     Status  `json:"status" yaml:"status"`
	Trend      Trend   `json:"trend" yaml:"trend"`
	DataPoints int     `json:"data_points" yaml:"data_points"`
}

// Gap returns how far the value falls short of the target, or 0.
func (r MetricResult) Gap() float64 {
	if r.Status != StatusBelowTarget {
		return 0
	}
	return round1(r.Target - r.Value)
}

// DefaultRedirectionBaseline is the pre-improvement average number of
// redirections per session.
const DefaultRedirectionBaseline = 10.0

// requiredDebugSteps must all appear in a debug session for it to count as complete.
var requiredDebugSteps = []string{"reproduce", "isolate", "hypothesis", "test", "fix", "verify"}

// metricDef describes the presentation and target of a primary metric.
type metricDef struct {
	name   string
	target float64
	unit   string
}

var (
	bugCatchDef         = metricDef{name: "Bug Catch Rate", target: 90, unit: "%"}
	patternAdherenceDef = metricDef{name: "Pattern Adherence Rate", target: 90, unit: "%"}
	redirectionDef      = metricDef{name: "Redirection Reduction", target: 50, unit: "% reduction"}
	debugMethodologyDef = metricDef{name: "Debug Methodology Adherence", target: 95, unit: "%"}
	skillActivationDef  = metricDef{name: "Skill Activation Rate", target: 85, unit: "%"}
)

func noData(def metricDef) MetricResult {
	return MetricResult{
		Name:   def.name,
		Value:  0,
		Target: def.target,
		Unit:   def.unit,
		Status: StatusNoData,
	}
}

// scored rounds value to one decimal and derives the status from the
// rounded value so the two always agree.
func scored(def metricDef, value float64, dataPoints int) MetricResult {
	if dataPoints == 0 {
		return noData(def)
	}
	v := round1(value)
	status := StatusBelowTarget
	if v >= def.target {
		status = StatusAboveTarget
	}
	return MetricResult{
		Name:       def.name,
		Value:      v,
		Target:     def.target,
		Unit:       def.unit,
		Status:     status,
		DataPoints: dataPoints,
	}
}

// percent returns 100*num/den, or 0 when den is 0.
func percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BugCatchRate is the share of bugs caught before code execution.
func BugCatchRate(events []Event) MetricResult {
	matched := ofMetric(events, MetricBugCatchRate)
	var total, caught float64
	for _, e := range matched {
		p := payloadAs[BugCatchPayload](e)
		total += p.TotalBugs
		caught += p.BugsCaughtPreExecution
	}
	return scored(bugCatchDef, percent(caught, total), len(matched))
}

// PatternAdherenceRate is the share of tasks with an applicable pattern that followed it.
func PatternAdherenceRate(events []Event) MetricResult {
	matched := ofMetric(events, MetricPatternAdherence)
	var applicable, following float64
	for _, e := range matched {
		p := payloadAs[PatternAdherencePayload](e)
		applicable += p.TasksWithApplicablePattern
		following += p.TasksFollowingPattern
	}
	return scored(patternAdherenceDef, percent(following, applicable), len(matched))
}

// SkillActivationRate is the share of skill activations that were appropriate
// out of appropriate plus missed activations.
func SkillActivationRate(events []Event) MetricResult {
	matched := ofMetric(events, MetricSkillActivation)
	var appropriate, missed float64
	for _, e := range matched {
		p := payloadAs[SkillActivationPayload](e)
		appropriate += p.AppropriateActivations
		missed += p.MissedActivations
	}
	return scored(skillActivationDef, percent(appropriate, appropriate+missed), len(matched))
}

// DebugMethodologyAdherence is the share of debug sessions that completed
// every required step. Each matching event is one session.
func DebugMethodologyAdherence(events []Event) MetricResult {
	matched := ofMetric(events, MetricDebugMethodology)
	complete := 0
	for _, e := range matched {
		if completedAllSteps(payloadAs[DebugSessionPayload](e).StepsCompleted) {
			complete++
		}
	}
	return scored(debugMethodologyDef, percent(float64(complete), float64(len(matched))), len(matched))
}

func completedAllSteps(steps []string) bool {
	seen := make(map[string]bool, len(steps))
	for _, s := range steps {
		seen[s] = true
	}
	for _, required := range requiredDebugSteps {
		if !seen[required] {
			return false
		}
	}
	return true
}

// RedirectionReduction compares the mean number of redirections per session
// with baseline. A baseline of 0 yields a reduction of 0.
func RedirectionReduction(events []Event, baseline float64) MetricResult {
	matched := ofMetric(events, MetricRedirectionFrequency)
	if len(matched) == 0 {
		return noData(redirectionDef)
	}

	perSession := make(map[string]int)
	for _, e := range matched {
		perSession[e.SessionID]++
	}
	total := 0
	for _, n := range perSession {
		total += n
	}
	avg := float64(total) / float64(len(perSession))

	reduction := 0.0
	if baseline != 0 {
		reduction = (baseline - avg) / baseline * 100
	}
	return scored(redirectionDef, reduction, len(matched))
}
