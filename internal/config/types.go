package config

// Config holds all configuration for jobrunnerd.
type Config struct {
	Port           int    `mapstructure:"port"`
	DBPath         string `mapstructure:"db_path"`
	MaxConcurrency int    `mapstructure:"max_concurrency"`

	RunRetentionDays       int `mapstructure:"run_retention_days"`
	StateCleanupIntervalMs int `mapstructure:"state_cleanup_interval_ms"`
	ShutdownGraceMs        int `mapstructure:"shutdown_grace_ms"`
	ReconcileIntervalMs    int `mapstructure:"reconcile_interval_ms"`

	Notifications NotificationsConfig `mapstructure:"notifications"`
	Log           LogConfig           `mapstructure:"log"`
	Gateway       GatewayConfig       `mapstructure:"gateway"`
}

// NotificationsConfig configures the Slack notifier.
type NotificationsConfig struct {
	SlackTokenPath   string  `mapstructure:"slack_token_path"`
	DefaultOnFailure *string `mapstructure:"default_on_failure"`
	DefaultOnSuccess *string `mapstructure:"default_on_success"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// GatewayConfig configures the remote session gateway client.
type GatewayConfig struct {
	URL       string `mapstructure:"url"`
	TokenPath string `mapstructure:"token_path"`
}
