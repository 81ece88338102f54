package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/agent-metrics/internal/observability"
	"github.com/valter-silva-au/agent-metrics/internal/report"
)

// Dashboard panel indices.
const (
	panelMetrics = iota
	panelAgents
	panelQuality
	panelAlerts
	panelCount
)

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	snapshot *observability.Snapshot
	alerts   []observability.Alert

	// State.
	loading bool
	err     error
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	snapshot *observability.Snapshot
	alerts   []observability.Alert
	err      error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	statusAbove  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusBelow  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusNoData = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	severityHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	severityMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	severityLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel() dashboardModel {
	return dashboardModel{
		activePanel: panelMetrics,
		loading:     true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadData
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.snapshot = msg.snapshot
		m.alerts = msg.alerts
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" Agent Metrics ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	panels := []string{
		m.renderMetricsPanel(),
		m.renderAgentsPanel(),
		m.renderQualityPanel(),
		m.renderAlertsPanel(),
	}

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Two columns of two panels.
		colWidth := availableWidth / 2
		for i := range panels {
			panels[i] = m.applyPanelStyle(i, panels[i], colWidth-4)
		}
		top := lipgloss.JoinHorizontal(lipgloss.Top, panels[panelMetrics], panels[panelAgents])
		bottom := lipgloss.JoinHorizontal(lipgloss.Top, panels[panelQuality], panels[panelAlerts])
		body = lipgloss.JoinVertical(lipgloss.Left, top, bottom)
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		for i := range panels {
			panels[i] = m.applyPanelStyle(i, panels[i], panelWidth)
		}
		body = lipgloss.JoinVertical(lipgloss.Left, panels...)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderMetricsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Primary Metrics"))
	b.WriteString("\n")

	if m.snapshot == nil {
		b.WriteString("  No metrics available.")
		return b.String()
	}

	for _, km := range m.snapshot.Metrics.All() {
		r := km.Result
		b.WriteString("  ")
		b.WriteString(styleForStatus(r.Status).Render(report.MetricLine(r)))
		b.WriteString(fmt.Sprintf("\n      %d data point(s)\n", r.DataPoints))
	}
	b.WriteString(fmt.Sprintf("\n  Events: %d (%s to %s)",
		m.snapshot.Summary.TotalEvents,
		m.snapshot.Summary.DateRange.Start,
		m.snapshot.Summary.DateRange.End))

	return b.String()
}

func (m dashboardModel) renderAgentsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Agents"))
	b.WriteString("\n")

	if m.snapshot == nil || len(m.snapshot.Agents) == 0 {
		b.WriteString("  No agent activity recorded.")
		return b.String()
	}

	for _, name := range observability.SortedAgentNames(m.snapshot.Agents) {
		a := m.snapshot.Agents[name]
		rate := fmt.Sprintf("%5s%%", observability.FormatFloat(a.SuccessRate))
		style := statusAbove
		if Config != nil && a.SuccessRate < Config.Alerts.MinAgentSuccessRate {
			style = statusBelow
		}
		b.WriteString(fmt.Sprintf("  %-18s %4d runs  %s  %ss avg\n",
			name, a.TotalActivations, style.Render(rate), observability.FormatFloat(a.AvgDuration)))
	}

	return b.String()
}

func (m dashboardModel) renderQualityPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Quality Gates"))
	b.WriteString("\n")

	if m.snapshot == nil {
		b.WriteString("  No quality data available.")
		return b.String()
	}

	q := m.snapshot.Quality
	b.WriteString(fmt.Sprintf("  %-14s %s\n", "Issues found", observability.FormatNumber(q.TotalIssues)))
	b.WriteString(fmt.Sprintf("  %-14s %s\n", "Resolved", observability.FormatNumber(q.Resolved)))
	b.WriteString(fmt.Sprintf("  %-14s %s/100\n", "Avg score", observability.FormatFloat(q.AvgQualityScore)))

	if len(q.BySeverity) > 0 {
		b.WriteString("\n  By severity:\n")
		for _, lc := range q.BySeverity.MostCommon() {
			b.WriteString(styleForSeverity(lc.Label).Render(fmt.Sprintf("    %-12s %d", lc.Label, lc.Count)))
			b.WriteString("\n")
		}
	}
	if len(q.ByCategory) > 0 {
		b.WriteString("\n  By category:\n")
		for _, lc := range q.ByCategory.MostCommon() {
			b.WriteString(fmt.Sprintf("    %-12s %d\n", lc.Label, lc.Count))
		}
	}

	return b.String()
}

func (m dashboardModel) renderAlertsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Alerts"))
	b.WriteString("\n")

	if len(m.alerts) == 0 {
		b.WriteString("  No active alerts.")
		return b.String()
	}

	for _, a := range m.alerts {
		sev := styleForSeverity(string(a.Severity)).Render(fmt.Sprintf("[%s]", strings.ToUpper(string(a.Severity))))
		b.WriteString(fmt.Sprintf("  %s %s\n", sev, a.Message))
	}

	b.WriteString(fmt.Sprintf("\n  Total: %d alert(s)", len(m.alerts)))

	return b.String()
}

func styleForStatus(status observability.Status) lipgloss.Style {
	switch status {
	case observability.StatusAboveTarget:
		return statusAbove
	case observability.StatusBelowTarget:
		return statusBelow
	default:
		return statusNoData
	}
}

func styleForSeverity(severity string) lipgloss.Style {
	switch strings.ToLower(severity) {
	case "high":
		return severityHigh
	case "medium":
		return severityMedium
	case "low":
		return severityLow
	default:
		return lipgloss.NewStyle()
	}
}

func loadData() tea.Msg {
	if Analyzer == nil {
		return dataLoadedMsg{err: errNotInitialized("metrics analyzer")}
	}

	snap, err := Analyzer.Snapshot()
	if err != nil {
		return dataLoadedMsg{err: fmt.Errorf("loading metrics: %w", err)}
	}

	result := dataLoadedMsg{snapshot: snap}
	if AlertEngine != nil && (Config == nil || Config.Alerts.Enabled) {
		result.alerts = AlertEngine.Evaluate(snap)
	}
	return result
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard for metrics, agents, and alerts",
	Long: `Launch an interactive terminal dashboard showing the primary metrics,
agent performance, quality gate findings, and alerts.

Navigate between panels with Tab, reload the log with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAnalyzer(); err != nil {
			return err
		}
		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
