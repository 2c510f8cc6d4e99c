package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/salgue441/jobrunner/pkg/errors"
)

// Load reads configPath (if it exists) and overlays environment
// variables prefixed JOBRUNNER_, then unmarshals into a Config,
// rejecting any field viper can't map onto the struct.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("JOBRUNNER")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "failed to read config file").
				WithCode(errors.CodeValidation)
		}
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config").
			WithCode(errors.CodeValidation)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 1937)
	v.SetDefault("db_path", "./data/runner.sqlite")
	v.SetDefault("max_concurrency", 4)

	v.SetDefault("run_retention_days", 30)
	v.SetDefault("state_cleanup_interval_ms", 3_600_000)
	v.SetDefault("shutdown_grace_ms", 30_000)
	v.SetDefault("reconcile_interval_ms", 60_000)

	v.SetDefault("notifications.slack_token_path", "")
	v.SetDefault("notifications.default_on_failure", nil)
	v.SetDefault("notifications.default_on_success", nil)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "stdout")

	v.SetDefault("gateway.url", "http://127.0.0.1:18789")
	v.SetDefault("gateway.token_path", "")
}
