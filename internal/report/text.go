// Package report renders analyzer results: the human-readable text report
// and the encoded dashboard snapshot.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/valter-silva-au/agent-metrics/internal/observability"
)

// Title is the report heading.
const Title = "AGENT METRICS ANALYSIS REPORT"

const (
	ruleWidth = 80

	glyphPass    = "✓"
	glyphFail    = "✗"
	glyphNeutral = "○"
)

// StatusGlyph maps a metric status to its report marker.
func StatusGlyph(s observability.Status) string {
	switch s {
	case observability.StatusAboveTarget:
		return glyphPass
	case observability.StatusBelowTarget:
		return glyphFail
	default:
		return glyphNeutral
	}
}

// MetricLine renders "✓ Name: value+unit (Target: target+unit)".
func MetricLine(m observability.MetricResult) string {
	return fmt.Sprintf("%s %s: %s%s (Target: %s%s)",
		StatusGlyph(m.Status), m.Name,
		observability.FormatFloat(m.Value), m.Unit,
		observability.FormatFloat(m.Target), m.Unit)
}

// WriteText writes the text report for snap. Sections appear in a fixed
// order: header, primary metrics, agent performance, quality gates.
func WriteText(w io.Writer, snap *observability.Snapshot) error {
	bw := bufio.NewWriter(w)
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)
	line := func(format string, args ...any) {
		_, _ = fmt.Fprintf(bw, format+"\n", args...)
	}

	line("%s", heavy)
	line("%s", Title)
	line("Generated: %s", snap.Timestamp.Local().Format("2006-01-02 15:04:05"))
	line("Total Events: %d", snap.Summary.TotalEvents)
	line("%s", heavy)
	line("")

	line("PRIMARY SUCCESS METRICS")
	line("%s", light)
	for _, km := range snap.Metrics.All() {
		m := km.Result
		line("%s", MetricLine(m))
		line("  Data points: %d", m.DataPoints)
		if m.Trend != observability.TrendAbsent {
			line("  Trend: %s", m.Trend)
		}
		line("")
	}

	line("AGENT PERFORMANCE")
	line("%s", light)
	for _, name := range observability.SortedAgentNames(snap.Agents) {
		a := snap.Agents[name]
		line("%s:", name)
		line("  Activations: %d", a.TotalActivations)
		line("  Avg Duration: %ss", observability.FormatFloat(a.AvgDuration))
		line("  Avg Tokens: %s", observability.FormatFloat(a.AvgTokens))
		line("  Success Rate: %s%%", observability.FormatFloat(a.SuccessRate))
		line("  Triggers: %s", a.TriggerBreakdown)
		line("")
	}

	q := snap.Quality
	line("QUALITY GATE ANALYSIS")
	line("%s", light)
	line("Total Issues Found: %s", observability.FormatNumber(q.TotalIssues))
	line("Issues Resolved: %s", observability.FormatNumber(q.Resolved))
	line("Average Quality Score: %s/100", observability.FormatFloat(q.AvgQualityScore))
	line("By Severity: %s", q.BySeverity)
	line("By Category: %s", q.ByCategory)
	line("")
	line("%s", heavy)

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
