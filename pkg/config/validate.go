package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError describes a single invalid configuration field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError aggregates every invalid field found in one pass.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns a ValidationError listing
// every problem, or nil.
func Validate(cfg *Config) error {
	var errs []FieldError

	if cfg.Server.ListenAddress == "" {
		errs = append(errs, FieldError{"server.listen_address", "must not be empty"})
	}
	if cfg.Server.ReadTimeout < 0 {
		errs = append(errs, FieldError{"server.read_timeout", "must not be negative"})
	}
	if cfg.Server.WriteTimeout < 0 {
		errs = append(errs, FieldError{"server.write_timeout", "must not be negative"})
	}
	if cfg.Server.BackendTimeout <= 0 {
		errs = append(errs, FieldError{"server.backend_timeout", "must be positive"})
	}
	if cfg.Server.MaxUploadBytes <= 0 {
		errs = append(errs, FieldError{"server.max_upload_bytes", "must be positive"})
	}

	if cfg.Storage.ConversationsPath == "" {
		errs = append(errs, FieldError{"storage.conversations_path", "must not be empty"})
	}
	if cfg.Storage.SettingsPath == "" {
		errs = append(errs, FieldError{"storage.settings_path", "must not be empty"})
	}

	if cfg.Retention.Enabled {
		if cfg.Retention.MaxAge <= 0 {
			errs = append(errs, FieldError{"retention.max_age", "must be positive"})
		}
		if _, err := cron.ParseStandard(cfg.Retention.Schedule); err != nil {
			errs = append(errs, FieldError{"retention.schedule", fmt.Sprintf("invalid cron expression: %v", err)})
		}
	}

	switch strings.ToLower(cfg.Telemetry.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{"telemetry.log_level", fmt.Sprintf("unknown level %q", cfg.Telemetry.LogLevel)})
	}
	switch strings.ToLower(cfg.Telemetry.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, FieldError{"telemetry.log_format", fmt.Sprintf("unknown format %q", cfg.Telemetry.LogFormat)})
	}

	if cfg.Credentials.WatchFile && cfg.Credentials.File == "" {
		errs = append(errs, FieldError{"credentials.watch_file", "requires credentials.file to be set"})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
