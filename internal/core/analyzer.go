package core

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/valter-silva-au/agent-metrics/internal/observability"
	"github.com/valter-silva-au/agent-metrics/internal/report"
)

// AnalyzerConfig holds everything a MetricsAnalyzer needs. Paths must
// already be resolved; the analyzer never consults the working directory.
type AnalyzerConfig struct {
	EventsPath          string
	SnapshotPath        string
	RedirectionBaseline float64
	TrendWindowDays     int
	Logger              *log.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// MetricsAnalyzer loads the event log and derives the report and the
// dashboard snapshot from it.
type MetricsAnalyzer interface {
	// Events loads the event log, logging a note when it does not exist
	// and one warning per skipped or degraded line.
	Events() ([]observability.Event, error)
	// Snapshot loads the events and computes every result.
	Snapshot() (*observability.Snapshot, error)
	// Trend classifies a metric's data.value samples over the trailing
	// window. A non-positive window uses the configured default.
	Trend(metricName string, windowDays int) (observability.Trend, error)
	// Report writes the text report to w.
	Report(w io.Writer) (*observability.Snapshot, error)
	// Run writes the text report to w, then writes the snapshot file and
	// returns its path.
	Run(w io.Writer) (string, error)
	// Record appends one event to the log.
	Record(event observability.Event) error
	EventsPath() string
	SnapshotPath() string
}

type metricsAnalyzer struct {
	cfg AnalyzerConfig
	log observability.EventLog
}

// NewMetricsAnalyzer creates a MetricsAnalyzer over the JSONL event log at
// cfg.EventsPath.
func NewMetricsAnalyzer(cfg AnalyzerConfig) MetricsAnalyzer {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TrendWindowDays <= 0 {
		cfg.TrendWindowDays = observability.DefaultTrendWindowDays
	}
	return &metricsAnalyzer{
		cfg: cfg,
		log: observability.NewJSONLEventLog(cfg.EventsPath),
	}
}

func (a *metricsAnalyzer) EventsPath() string   { return a.cfg.EventsPath }
func (a *metricsAnalyzer) SnapshotPath() string { return a.cfg.SnapshotPath }

func (a *metricsAnalyzer) Events() ([]observability.Event, error) {
	res, err := a.log.Load()
	if err != nil {
		return nil, fmt.Errorf("loading events from %s: %w", a.cfg.EventsPath, err)
	}
	if res.Missing {
		a.cfg.Logger.Printf("metrics file not found at %s", a.cfg.EventsPath)
		a.cfg.Logger.Printf("no data to analyze yet; metrics will be collected as agents run")
	}
	for _, w := range res.Warnings {
		a.cfg.Logger.Printf("warning: %s", w)
	}
	return res.Events, nil
}

func (a *metricsAnalyzer) Snapshot() (*observability.Snapshot, error) {
	events, err := a.Events()
	if err != nil {
		return nil, err
	}
	return observability.BuildSnapshot(events, a.cfg.RedirectionBaseline, a.cfg.Now()), nil
}

func (a *metricsAnalyzer) Trend(metricName string, windowDays int) (observability.Trend, error) {
	if windowDays <= 0 {
		windowDays = a.cfg.TrendWindowDays
	}
	events, err := a.Events()
	if err != nil {
		return observability.TrendAbsent, err
	}
	return observability.CalculateTrend(events, metricName, windowDays, a.cfg.Now())
}

func (a *metricsAnalyzer) Report(w io.Writer) (*observability.Snapshot, error) {
	snap, err := a.Snapshot()
	if err != nil {
		return nil, err
	}
	if err := report.WriteText(w, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (a *metricsAnalyzer) Run(w io.Writer) (string, error) {
	snap, err := a.Report(w)
	if err != nil {
		return "", err
	}
	if err := report.WriteFile(a.cfg.SnapshotPath, snap); err != nil {
		return "", fmt.Errorf("saving dashboard data to %s: %w", a.cfg.SnapshotPath, err)
	}
	return a.cfg.SnapshotPath, nil
}

func (a *metricsAnalyzer) Record(event observability.Event) error {
	if err := a.log.Append(event); err != nil {
		return fmt.Errorf("recording %s event: %w", event.MetricName, err)
	}
	return nil
}
