package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q, want %q", cfg.Server.ListenAddress, DefaultListenAddress)
	}
	if cfg.Server.BackendTimeout != DefaultBackendTimeout {
		t.Errorf("BackendTimeout = %v, want %v", cfg.Server.BackendTimeout, DefaultBackendTimeout)
	}
	if cfg.Retention.Schedule != DefaultRetentionSchedule {
		t.Errorf("Schedule = %q, want %q", cfg.Retention.Schedule, DefaultRetentionSchedule)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  listen_address: ":9090"
  backend_timeout: 30s
storage:
  conversations_path: "/tmp/conv.db"
retention:
  enabled: true
  max_age: 168h
  schedule: "30 2 * * *"
telemetry:
  log_level: debug
  log_format: text
  metrics_enabled: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.ListenAddress != ":9090" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.BackendTimeout != 30*time.Second {
		t.Errorf("BackendTimeout = %v", cfg.Server.BackendTimeout)
	}
	if cfg.Storage.ConversationsPath != "/tmp/conv.db" {
		t.Errorf("ConversationsPath = %q", cfg.Storage.ConversationsPath)
	}
	// Unset fields still take defaults.
	if cfg.Storage.SettingsPath != DefaultSettingsPath {
		t.Errorf("SettingsPath = %q, want default", cfg.Storage.SettingsPath)
	}
	if cfg.Retention.MaxAge != 168*time.Hour {
		t.Errorf("MaxAge = %v", cfg.Retention.MaxAge)
	}
	if !cfg.Telemetry.MetricsEnabled {
		t.Error("MetricsEnabled = false")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load(missing) expected error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TITAN_SERVER_LISTEN_ADDRESS", ":7070")
	t.Setenv("TITAN_LOG_LEVEL", "debug")
	t.Setenv("TITAN_SERVER_BACKEND_TIMEOUT", "45s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.ListenAddress != ":7070" {
		t.Errorf("ListenAddress = %q, want :7070", cfg.Server.ListenAddress)
	}
	if cfg.Telemetry.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.Telemetry.LogLevel)
	}
	if cfg.Server.BackendTimeout != 45*time.Second {
		t.Errorf("BackendTimeout = %v, want 45s", cfg.Server.BackendTimeout)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Server.ListenAddress = ""
	cfg.Telemetry.LogLevel = "loud"
	cfg.Retention.Enabled = true
	cfg.Retention.Schedule = "not-cron"

	err := Validate(cfg)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if len(verr.Errors) != 3 {
		t.Errorf("collected %d errors, want 3: %v", len(verr.Errors), verr)
	}
}

func TestValidateWatchRequiresFile(t *testing.T) {
	cfg := Default()
	cfg.Credentials.WatchFile = true

	if err := Validate(cfg); err == nil {
		t.Error("expected error for watch_file without file")
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-oai")
	t.Setenv("PERPLEXITY_API_KEY", "pplx-1")
	t.Setenv("TAVILY_API_KEY", "")

	creds := CredentialsFromEnv()
	if creds["openai"] != "sk-oai" {
		t.Errorf("openai = %q", creds["openai"])
	}
	if creds["perplexity"] != "pplx-1" {
		t.Errorf("perplexity = %q", creds["perplexity"])
	}
	if _, ok := creds["tavily"]; ok {
		t.Error("empty env var produced an entry")
	}
}

func TestLoadCredentialsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.yaml")
	content := "openai: sk-file\nanthropic: \"\"\ngroq: gsk-1\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	creds, err := LoadCredentialsFile(path)
	if err != nil {
		t.Fatalf("LoadCredentialsFile() error = %v", err)
	}
	if creds["openai"] != "sk-file" || creds["groq"] != "gsk-1" {
		t.Errorf("creds = %v", creds)
	}
	if _, ok := creds["anthropic"]; ok {
		t.Error("empty value kept")
	}
}

func TestMergeCredentials(t *testing.T) {
	merged := MergeCredentials(
		map[string]string{"openai": "env", "groq": "env"},
		map[string]string{"openai": "file", "mistral": ""},
	)
	if merged["openai"] != "file" {
		t.Errorf("later layer did not win: %q", merged["openai"])
	}
	if merged["groq"] != "env" {
		t.Errorf("groq = %q", merged["groq"])
	}
	if _, ok := merged["mistral"]; ok {
		t.Error("empty value merged")
	}
}
