package models

// MetricsConfig holds the analyzer settings read from .metricsconfig via Viper.
type MetricsConfig struct {
	Paths         PathsConfig         `yaml:"paths" mapstructure:"paths"`
	Redirection   RedirectionConfig   `yaml:"redirection" mapstructure:"redirection"`
	Trend         TrendConfig         `yaml:"trend" mapstructure:"trend"`
	Alerts        AlertsConfig        `yaml:"alerts" mapstructure:"alerts"`
	Notifications NotificationsConfig `yaml:"notifications" mapstructure:"notifications"`
}

// PathsConfig locates the event log and the dashboard snapshot. Relative
// paths are resolved against the base directory.
type PathsConfig struct {
	Events   string `yaml:"events" mapstructure:"events"`
	Snapshot string `yaml:"snapshot" mapstructure:"snapshot"`
}

// RedirectionConfig holds the pre-improvement redirections per session.
type RedirectionConfig struct {
	Baseline float64 `yaml:"baseline" mapstructure:"baseline"`
}

// TrendConfig holds the default look-back window for trend classification.
type TrendConfig struct {
	WindowDays int `yaml:"window_days" mapstructure:"window_days"`
}

// AlertsConfig controls alert evaluation.
type AlertsConfig struct {
	Enabled             bool    `yaml:"enabled" mapstructure:"enabled"`
	MinAgentSuccessRate float64 `yaml:"min_agent_success_rate" mapstructure:"min_agent_success_rate"`
}

// NotificationsConfig holds outbound notification channels.
type NotificationsConfig struct {
	Slack SlackConfig `yaml:"slack" mapstructure:"slack"`
}

// SlackConfig holds the Slack incoming webhook. An empty URL disables it.
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
}
