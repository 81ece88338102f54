package cli

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/agent-metrics/internal/core"
	"github.com/valter-silva-au/agent-metrics/internal/observability"
)

var fixedNow = time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)

// sampleEvents exercises every analyzer section: one passing and one failing
// metric, a flaky agent, and unresolved quality issues.
var sampleEvents = []string{
	`{"timestamp":"2025-11-18T10:00:00Z","metric_name":"bug_catch_rate","data":{"total_bugs":10,"bugs_caught_pre_execution":9}}`,
	`{"timestamp":"2025-11-19T10:00:00Z","metric_name":"bug_catch_rate","data":{"total_bugs":5,"bugs_caught_pre_execution":5}}`,
	`{"timestamp":"2025-11-19T11:00:00Z","metric_name":"pattern_adherence_rate","data":{"tasks_with_applicable_pattern":10,"tasks_following_pattern":5}}`,
	`{"timestamp":"2025-11-19T12:00:00Z","metric_name":"agent_performance","agent_name":"reviewer","data":{"duration":10,"tokens_used":100,"success":true,"trigger_type":"auto"}}`,
	`{"timestamp":"2025-11-19T13:00:00Z","metric_name":"agent_performance","agent_name":"reviewer","data":{"duration":30,"tokens_used":300,"success":false,"trigger_type":"auto"}}`,
	`{"timestamp":"2025-11-19T14:00:00Z","metric_name":"quality_gate_effectiveness","data":{"issues_found":4,"issues_resolved":1,"issue_severity":"high","issue_category":"security","quality_score":70}}`,
	`{"timestamp":"2025-11-19T15:00:00Z","metric_name":"latency","data":{"value":10}}`,
	`{"timestamp":"2025-11-20T09:00:00Z","metric_name":"latency","data":{"value":20}}`,
}

// setupServices wires the package-level services against a temp project
// and restores the previous values when the test ends. With no lines the
// event log does not exist.
func setupServices(t *testing.T, lines ...string) string {
	t.Helper()

	origBase, origConfig, origMgr := BasePath, Config, ConfigMgr
	origAnalyzer, origLogger := Analyzer, Logger
	origEngine, origNotifier := AlertEngine, Notifier
	t.Cleanup(func() {
		BasePath, Config, ConfigMgr = origBase, origConfig, origMgr
		Analyzer, Logger = origAnalyzer, origLogger
		AlertEngine, Notifier = origEngine, origNotifier
	})

	dir := t.TempDir()
	eventsPath := filepath.Join(dir, ".claude", "data", "metrics.jsonl")
	if len(lines) > 0 {
		if err := os.MkdirAll(filepath.Dir(eventsPath), 0o750); err != nil {
			t.Fatalf("creating data dir: %v", err)
		}
		if err := os.WriteFile(eventsPath, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
			t.Fatalf("writing events: %v", err)
		}
	}

	BasePath = dir
	ConfigMgr = core.NewConfigurationManager(dir)
	Config = core.DefaultConfig()
	Logger = log.New(io.Discard, "", 0)
	Analyzer = core.NewMetricsAnalyzer(core.AnalyzerConfig{
		EventsPath:          eventsPath,
		SnapshotPath:        filepath.Join(dir, "analysis", "metrics", "latest.json"),
		RedirectionBaseline: Config.Redirection.Baseline,
		TrendWindowDays:     Config.Trend.WindowDays,
		Logger:              Logger,
		Now:                 func() time.Time { return fixedNow },
	})
	AlertEngine = observability.NewAlertEngine(observability.DefaultAlertThresholds())
	Notifier = nil
	return dir
}

// captureStdout captures stdout output during fn execution.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		out, _ := io.ReadAll(r)
		done <- out
	}()

	fn()

	_ = w.Close()
	os.Stdout = origStdout
	return string(<-done)
}
