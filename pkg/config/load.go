package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file, applies defaults and
// environment overrides, and validates the result. An empty path yields the
// default configuration plus environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies TITAN_* environment variables on top of the
// loaded configuration. Environment always wins over the file.
func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if parsed, err := strconv.ParseBool(v); err == nil {
				*dst = parsed
			}
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			if parsed, err := time.ParseDuration(v); err == nil {
				*dst = parsed
			}
		}
	}

	setString("TITAN_SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	setDuration("TITAN_SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	setDuration("TITAN_SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	setDuration("TITAN_SERVER_BACKEND_TIMEOUT", &cfg.Server.BackendTimeout)
	setDuration("TITAN_SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	setString("TITAN_STORAGE_CONVERSATIONS_PATH", &cfg.Storage.ConversationsPath)
	setString("TITAN_STORAGE_SETTINGS_PATH", &cfg.Storage.SettingsPath)

	setBool("TITAN_RETENTION_ENABLED", &cfg.Retention.Enabled)
	setDuration("TITAN_RETENTION_MAX_AGE", &cfg.Retention.MaxAge)
	setString("TITAN_RETENTION_SCHEDULE", &cfg.Retention.Schedule)

	setString("TITAN_CREDENTIALS_FILE", &cfg.Credentials.File)
	setBool("TITAN_CREDENTIALS_WATCH_FILE", &cfg.Credentials.WatchFile)

	setString("TITAN_LOG_LEVEL", &cfg.Telemetry.LogLevel)
	setString("TITAN_LOG_FORMAT", &cfg.Telemetry.LogFormat)
	setBool("TITAN_METRICS_ENABLED", &cfg.Telemetry.MetricsEnabled)
}
