// Package internal provides the App struct that wires all components of
// agent-metrics together and initializes the CLI layer.
package internal

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/agent-metrics/internal/cli"
	"github.com/valter-silva-au/agent-metrics/internal/core"
	"github.com/valter-silva-au/agent-metrics/internal/observability"
	"github.com/valter-silva-au/agent-metrics/pkg/models"
)

// HomeEnv overrides base directory discovery.
const HomeEnv = "AGENT_METRICS_HOME"

// LogPrefix prefixes every diagnostic written to stderr.
const LogPrefix = "[agent-metrics] "

// App holds all service dependencies for agent-metrics.
type App struct {
	BasePath string
	Logger   *log.Logger

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.MetricsConfig

	// Analysis
	Analyzer core.MetricsAnalyzer

	// Alerting
	AlertEngine observability.AlertEngine
	Notifier    observability.Notifier
}

// NewApp loads configuration from basePath and wires every component.
// Configuration errors are returned rather than replaced with defaults.
func NewApp(basePath string) (*App, error) {
	app := &App{
		BasePath: basePath,
		Logger:   log.New(os.Stderr, LogPrefix, 0),
	}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cli.BasePath = basePath
	cli.ConfigMgr = app.ConfigMgr
	cli.Logger = app.Logger

	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		return app, fmt.Errorf("loading configuration: %w", err)
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return app, err
	}
	app.Config = cfg

	// --- Analysis ---
	app.Analyzer = core.NewMetricsAnalyzer(core.AnalyzerConfig{
		EventsPath:          app.ConfigMgr.ResolvePath(cfg.Paths.Events),
		SnapshotPath:        app.ConfigMgr.ResolvePath(cfg.Paths.Snapshot),
		RedirectionBaseline: cfg.Redirection.Baseline,
		TrendWindowDays:     cfg.Trend.WindowDays,
		Logger:              app.Logger,
	})

	// --- Alerting ---
	thresholds := observability.DefaultAlertThresholds()
	thresholds.MinAgentSuccessRate = cfg.Alerts.MinAgentSuccessRate
	app.AlertEngine = observability.NewAlertEngine(thresholds)
	if cfg.Notifications.Slack.WebhookURL != "" {
		app.Notifier = observability.NewSlackNotifier(cfg.Notifications.Slack.WebhookURL)
	}

	// --- Wire CLI package-level variables ---
	cli.Config = app.Config
	cli.Analyzer = app.Analyzer
	cli.AlertEngine = app.AlertEngine
	cli.Notifier = app.Notifier

	return app, nil
}

// ResolveBasePath determines the project directory the configured paths are
// relative to. It checks the AGENT_METRICS_HOME env var, then walks up from
// the working directory looking for .metricsconfig or a .claude directory,
// then falls back to the working directory.
func ResolveBasePath() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return home
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	// Walk up to find a project marker.
	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName)); err == nil {
			return dir
		}
		if info, err := os.Stat(filepath.Join(dir, ".claude")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return cwd
}
