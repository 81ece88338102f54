// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the metrics analyzer as MCP tools for AI coding assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/agent-metrics/internal/core"
	"github.com/valter-silva-au/agent-metrics/internal/observability"
)

// Server wraps the analyzer and exposes it as MCP tools.
type Server struct {
	server      *gomcp.Server
	analyzer    core.MetricsAnalyzer
	alertEngine observability.AlertEngine
}

// NewServer creates a new MCP server over the given analyzer. alertEngine may
// be nil if alerts are disabled.
func NewServer(analyzer core.MetricsAnalyzer, alertEngine observability.AlertEngine, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		analyzer:    analyzer,
		alertEngine: alertEngine,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "agent-metrics", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type emptyInput struct{}

type metricOutput struct {
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Target     float64 `json:"target"`
	Unit       string  `json:"unit"`
	Status     string  `json:"status"`
	Trend      string  `json:"trend"`
	DataPoints int     `json:"data_points"`
}

type getMetricsOutput struct {
	Metrics     []metricOutput `json:"metrics"`
	TotalEvents int            `json:"total_events"`
	BelowTarget int            `json:"below_target"`
}

type getAgentsInput struct {
	Agent string `json:"agent,omitempty" jsonschema:"only return this agent (use unknown for events without an agent name)"`
}

type agentOutput struct {
	Name             string         `json:"name"`
	TotalActivations int            `json:"total_activations"`
	AvgDuration      float64        `json:"avg_duration"`
	AvgTokens        float64        `json:"avg_tokens"`
	SuccessRate      float64        `json:"success_rate"`
	TriggerBreakdown map[string]int `json:"trigger_breakdown"`
}

type getAgentsOutput struct {
	Agents []agentOutput `json:"agents"`
	Count  int           `json:"count"`
}

type qualityOutput struct {
	TotalIssues     float64        `json:"total_issues"`
	Resolved        float64        `json:"resolved"`
	Unresolved      float64        `json:"unresolved"`
	AvgQualityScore float64        `json:"avg_quality_score"`
	BySeverity      map[string]int `json:"by_severity"`
	ByCategory      map[string]int `json:"by_category"`
}

type getTrendInput struct {
	MetricName string `json:"metric_name" jsonschema:"the metric to classify (e.g. bug_catch_rate)"`
	WindowDays int    `json:"window_days,omitempty" jsonschema:"trailing window in days. Defaults to the configured window."`
}

type getTrendOutput struct {
	MetricName string `json:"metric_name"`
	WindowDays int    `json:"window_days,omitempty"`
	Trend      string `json:"trend"`
}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

type snapshotOutput struct {
	Timestamp   string         `json:"timestamp"`
	TotalEvents int            `json:"total_events"`
	Start       string         `json:"start"`
	End         string         `json:"end"`
	Metrics     []metricOutput `json:"metrics"`
	Agents      []agentOutput  `json:"agents"`
	Quality     qualityOutput  `json:"quality"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get the five primary success metrics (bug catch rate, pattern adherence, redirection reduction, debug methodology, skill activation) with value, target, and status.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_agents",
		Description: "Get per-agent performance: activations, average duration and tokens, success rate, and trigger breakdown.",
	}, s.handleGetAgents)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_quality",
		Description: "Get quality gate statistics: issues found and resolved, average quality score, and counts by severity and category.",
	}, s.handleGetQuality)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_trend",
		Description: "Classify a metric's recent data.value samples as improving, declining, stable, or absent.",
	}, s.handleGetTrend)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate and return active alerts (metrics below target, struggling agents, unresolved quality issues).",
	}, s.handleGetAlerts)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_snapshot",
		Description: "Get the full dashboard snapshot: event summary, primary metrics, agents, and quality statistics.",
	}, s.handleGetSnapshot)
}

// --- Tool handlers ---

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, _ emptyInput) (*gomcp.CallToolResult, getMetricsOutput, error) {
	snap, err := s.analyzer.Snapshot()
	if err != nil {
		return errorResult(fmt.Sprintf("computing metrics: %s", err)), getMetricsOutput{Metrics: []metricOutput{}}, nil
	}

	out := getMetricsOutput{
		Metrics:     metricsToOutput(snap.Metrics),
		TotalEvents: snap.Summary.TotalEvents,
	}
	for _, m := range out.Metrics {
		if m.Status == string(observability.StatusBelowTarget) {
			out.BelowTarget++
		}
	}
	return nil, out, nil
}

func (s *Server) handleGetAgents(_ context.Context, _ *gomcp.CallToolRequest, input getAgentsInput) (*gomcp.CallToolResult, getAgentsOutput, error) {
	snap, err := s.analyzer.Snapshot()
	if err != nil {
		return errorResult(fmt.Sprintf("computing agent stats: %s", err)), getAgentsOutput{Agents: []agentOutput{}}, nil
	}

	agents := agentsToOutput(snap.Agents)
	if input.Agent != "" {
		var filtered []agentOutput
		for _, a := range agents {
			if a.Name == input.Agent {
				filtered = append(filtered, a)
			}
		}
		if len(filtered) == 0 {
			return errorResult(fmt.Sprintf("no activity recorded for agent %q", input.Agent)), getAgentsOutput{Agents: []agentOutput{}}, nil
		}
		agents = filtered
	}

	return nil, getAgentsOutput{Agents: agents, Count: len(agents)}, nil
}

func (s *Server) handleGetQuality(_ context.Context, _ *gomcp.CallToolRequest, _ emptyInput) (*gomcp.CallToolResult, qualityOutput, error) {
	snap, err := s.analyzer.Snapshot()
	if err != nil {
		return errorResult(fmt.Sprintf("computing quality stats: %s", err)), qualityToOutput(observability.QualityIssueStats{}), nil
	}
	return nil, qualityToOutput(snap.Quality), nil
}

func (s *Server) handleGetTrend(_ context.Context, _ *gomcp.CallToolRequest, input getTrendInput) (*gomcp.CallToolResult, getTrendOutput, error) {
	if input.MetricName == "" {
		return errorResult("metric_name is required"), getTrendOutput{}, nil
	}
	if input.WindowDays < 0 {
		return errorResult(fmt.Sprintf("window_days must be positive, got %d", input.WindowDays)), getTrendOutput{}, nil
	}

	trend, err := s.analyzer.Trend(input.MetricName, input.WindowDays)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating trend: %s", err)), getTrendOutput{}, nil
	}

	return nil, getTrendOutput{
		MetricName: input.MetricName,
		WindowDays: input.WindowDays,
		Trend:      trend.String(),
	}, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, _ emptyInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.alertEngine == nil {
		return errorResult("alert engine not available (alerts may be disabled)"), getAlertsOutput{Alerts: []alertOutput{}}, nil
	}

	snap, err := s.analyzer.Snapshot()
	if err != nil {
		return errorResult(fmt.Sprintf("evaluating alerts: %s", err)), getAlertsOutput{Alerts: []alertOutput{}}, nil
	}
	alerts := s.alertEngine.Evaluate(snap)

	out := getAlertsOutput{
		Alerts: make([]alertOutput, len(alerts)),
		Count:  len(alerts),
	}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}

	return nil, out, nil
}

func (s *Server) handleGetSnapshot(_ context.Context, _ *gomcp.CallToolRequest, _ emptyInput) (*gomcp.CallToolResult, snapshotOutput, error) {
	snap, err := s.analyzer.Snapshot()
	if err != nil {
		return errorResult(fmt.Sprintf("building snapshot: %s", err)), emptySnapshotOutput(), nil
	}

	return nil, snapshotOutput{
		Timestamp:   snap.Timestamp.Format(time.RFC3339),
		TotalEvents: snap.Summary.TotalEvents,
		Start:       snap.Summary.DateRange.Start,
		End:         snap.Summary.DateRange.End,
		Metrics:     metricsToOutput(snap.Metrics),
		Agents:      agentsToOutput(snap.Agents),
		Quality:     qualityToOutput(snap.Quality),
	}, nil
}

// --- Helpers ---

// Error results still carry a structured output, which the SDK validates
// against the tool's schema. Collections must therefore be empty, not nil.
func emptySnapshotOutput() snapshotOutput {
	return snapshotOutput{
		Metrics: []metricOutput{},
		Agents:  []agentOutput{},
		Quality: qualityToOutput(observability.QualityIssueStats{}),
	}
}

func metricsToOutput(m observability.PrimaryMetrics) []metricOutput {
	all := m.All()
	out := make([]metricOutput, len(all))
	for i, km := range all {
		r := km.Result
		out[i] = metricOutput{
			Key:        km.Key,
			Name:       r.Name,
			Value:      r.Value,
			Target:     r.Target,
			Unit:       r.Unit,
			Status:     string(r.Status),
			Trend:      r.Trend.String(),
			DataPoints: r.DataPoints,
		}
	}
	return out
}

func agentsToOutput(agents map[string]observability.AgentSummary) []agentOutput {
	names := observability.SortedAgentNames(agents)
	out := make([]agentOutput, len(names))
	for i, name := range names {
		a := agents[name]
		out[i] = agentOutput{
			Name:             name,
			TotalActivations: a.TotalActivations,
			AvgDuration:      a.AvgDuration,
			AvgTokens:        a.AvgTokens,
			SuccessRate:      a.SuccessRate,
			TriggerBreakdown: counterToMap(a.TriggerBreakdown),
		}
	}
	return out
}

func qualityToOutput(q observability.QualityIssueStats) qualityOutput {
	return qualityOutput{
		TotalIssues:     q.TotalIssues,
		Resolved:        q.Resolved,
		Unresolved:      q.Unresolved(),
		AvgQualityScore: q.AvgQualityScore,
		BySeverity:      counterToMap(q.BySeverity),
		ByCategory:      counterToMap(q.ByCategory),
	}
}

func counterToMap(c observability.Counter) map[string]int {
	out := make(map[string]int, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
