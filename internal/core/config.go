// Package core contains the business logic for agent-metrics: configuration
// loading and validation, and the MetricsAnalyzer that turns an event log
// into a report and a dashboard snapshot.
package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/agent-metrics/internal/observability"
	"github.com/valter-silva-au/agent-metrics/pkg/models"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the YAML configuration file looked up in the base directory.
const ConfigFileName = ".metricsconfig"

// EnvPrefix prefixes environment variables that override configuration
// keys, e.g. AGENT_METRICS_PATHS_EVENTS.
const EnvPrefix = "AGENT_METRICS"

// ErrConfigExists is returned by WriteDefault when a configuration file
// already exists and force is false.
var ErrConfigExists = errors.New("configuration file already exists")

// ConfigurationManager defines the interface for loading, validating, and
// initialising the .metricsconfig file.
type ConfigurationManager interface {
	LoadConfig() (*models.MetricsConfig, error)
	ValidateConfig(cfg *models.MetricsConfig) error
	WriteDefault(force bool) (string, error)
	ConfigPath() string
	ResolvePath(p string) string
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the root directory where .metricsconfig resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns a MetricsConfig populated with the defaults.
func DefaultConfig() *models.MetricsConfig {
	return &models.MetricsConfig{
		Paths: models.PathsConfig{
			Events:   filepath.Join(".claude", "data", "metrics.jsonl"),
			Snapshot: filepath.Join("analysis", "metrics", "latest.json"),
		},
		Redirection: models.RedirectionConfig{Baseline: observability.DefaultRedirectionBaseline},
		Trend:       models.TrendConfig{WindowDays: observability.DefaultTrendWindowDays},
		Alerts: models.AlertsConfig{
			Enabled:             true,
			MinAgentSuccessRate: observability.DefaultAlertThresholds().MinAgentSuccessRate,
		},
	}
}

// LoadConfig reads .metricsconfig from the base path using Viper. If the
// file does not exist, defaults are returned. Environment variables with
// the AGENT_METRICS_ prefix override file values.
func (cm *viperConfigManager) LoadConfig() (*models.MetricsConfig, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so that env overrides reach Unmarshal.
	v.SetDefault("paths.events", cfg.Paths.Events)
	v.SetDefault("paths.snapshot", cfg.Paths.Snapshot)
	v.SetDefault("redirection.baseline", cfg.Redirection.Baseline)
	v.SetDefault("trend.window_days", cfg.Trend.WindowDays)
	v.SetDefault("alerts.enabled", cfg.Alerts.Enabled)
	v.SetDefault("alerts.min_agent_success_rate", cfg.Alerts.MinAgentSuccessRate)
	v.SetDefault("notifications.slack.webhook_url", cfg.Notifications.Slack.WebhookURL)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", ConfigFileName, err)
	}
	return cfg, nil
}

// ValidateConfig checks the configuration for invalid values and returns
// an error listing every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.MetricsConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if strings.TrimSpace(cfg.Paths.Events) == "" {
		errs = append(errs, "paths.events must not be empty")
	}
	if strings.TrimSpace(cfg.Paths.Snapshot) == "" {
		errs = append(errs, "paths.snapshot must not be empty")
	}
	if cfg.Redirection.Baseline < 0 {
		errs = append(errs, fmt.Sprintf("redirection.baseline must be non-negative, got %v", cfg.Redirection.Baseline))
	}
	if cfg.Trend.WindowDays < 1 {
		errs = append(errs, fmt.Sprintf("trend.window_days must be at least 1, got %d", cfg.Trend.WindowDays))
	}
	if rate := cfg.Alerts.MinAgentSuccessRate; rate < 0 || rate > 100 {
		errs = append(errs, fmt.Sprintf("alerts.min_agent_success_rate must be between 0 and 100, got %v", rate))
	}
	if url := cfg.Notifications.Slack.WebhookURL; url != "" && !strings.HasPrefix(url, "https://") {
		errs = append(errs, fmt.Sprintf("notifications.slack.webhook_url %q must use https", url))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// WriteDefault writes the default configuration to .metricsconfig and
// returns its path. An existing file is only replaced when force is set.
func (cm *viperConfigManager) WriteDefault(force bool) (string, error) {
	path := cm.ConfigPath()
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%s: %w", path, ErrConfigExists)
		}
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("marshalling default config: %w", err)
	}
	if err := os.MkdirAll(cm.basePath, 0o750); err != nil {
		return "", fmt.Errorf("creating %s: %w", cm.basePath, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: config file is shared with the team
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// ConfigPath returns the location of the configuration file.
func (cm *viperConfigManager) ConfigPath() string {
	return filepath.Join(cm.basePath, ConfigFileName)
}

// ResolvePath makes a configured path absolute against the base path.
func (cm *viperConfigManager) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(cm.basePath, p)
}
