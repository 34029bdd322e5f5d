package config

import "time"

// Config is the root configuration structure.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `yaml:"server"`

	// Storage contains SQLite database paths.
	Storage StorageConfig `yaml:"storage"`

	// Retention controls conversation pruning.
	Retention RetentionConfig `yaml:"retention"`

	// Credentials controls credential sourcing.
	Credentials CredentialsConfig `yaml:"credentials"`

	// Telemetry contains logging and metrics settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the address the server binds to.
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// Backend calls stream through it, so it runs long.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle limit.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// BackendTimeout bounds a single backend provider call.
	BackendTimeout time.Duration `yaml:"backend_timeout"`

	// MaxUploadBytes limits multipart audio uploads.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// StorageConfig contains database settings.
type StorageConfig struct {
	// ConversationsPath is the SQLite file for conversation history.
	ConversationsPath string `yaml:"conversations_path"`

	// SettingsPath is the SQLite file for API key settings.
	SettingsPath string `yaml:"settings_path"`
}

// RetentionConfig controls the conversation pruning schedule.
type RetentionConfig struct {
	// Enabled turns scheduled pruning on.
	Enabled bool `yaml:"enabled"`

	// MaxAge is how long idle conversations are kept.
	MaxAge time.Duration `yaml:"max_age"`

	// Schedule is a cron expression for prune runs.
	Schedule string `yaml:"schedule"`
}

// CredentialsConfig controls credential sourcing.
type CredentialsConfig struct {
	// File is an optional YAML file mapping provider ids to API keys.
	// When set, Watcher hot-reloads it on change.
	File string `yaml:"file"`

	// WatchFile enables hot-reload of the credentials file.
	WatchFile bool `yaml:"watch_file"`
}

// TelemetryConfig contains logging and metrics settings.
type TelemetryConfig struct {
	// LogLevel is the minimum log level.
	LogLevel string `yaml:"log_level"`

	// LogFormat is "json" or "text".
	LogFormat string `yaml:"log_format"`

	// MetricsEnabled exposes /metrics when true.
	MetricsEnabled bool `yaml:"metrics_enabled"`
}
