package config

import "time"

// Default values applied to unset fields.
const (
	DefaultListenAddress     = ":8080"
	DefaultReadTimeout       = 30 * time.Second
	DefaultWriteTimeout      = 120 * time.Second
	DefaultIdleTimeout       = 90 * time.Second
	DefaultShutdownTimeout   = 15 * time.Second
	DefaultBackendTimeout    = 60 * time.Second
	DefaultMaxUploadBytes    = 25 << 20
	DefaultConversationsPath = "data/conversations.db"
	DefaultSettingsPath      = "data/settings.db"
	DefaultRetentionMaxAge   = 30 * 24 * time.Hour
	DefaultRetentionSchedule = "0 3 * * *"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"
)

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields with default values.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.BackendTimeout == 0 {
		cfg.Server.BackendTimeout = DefaultBackendTimeout
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}

	if cfg.Storage.ConversationsPath == "" {
		cfg.Storage.ConversationsPath = DefaultConversationsPath
	}
	if cfg.Storage.SettingsPath == "" {
		cfg.Storage.SettingsPath = DefaultSettingsPath
	}

	if cfg.Retention.MaxAge == 0 {
		cfg.Retention.MaxAge = DefaultRetentionMaxAge
	}
	if cfg.Retention.Schedule == "" {
		cfg.Retention.Schedule = DefaultRetentionSchedule
	}

	if cfg.Telemetry.LogLevel == "" {
		cfg.Telemetry.LogLevel = DefaultLogLevel
	}
	if cfg.Telemetry.LogFormat == "" {
		cfg.Telemetry.LogFormat = DefaultLogFormat
	}
}
