package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	mocks "halo-hq/titan/internal/session"
	"halo-hq/titan/pkg/config"
)

func TestSeedGlobalCredentialsLayering(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	path := filepath.Join(t.TempDir(), "credentials.yaml")
	if err := os.WriteFile(path, []byte("openai: sk-file\ngroq: sk-file-groq\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	settings := mocks.NewMemorySettingsStore()
	if err := settings.SetGlobalDefault(ctx, "openai", "sk-stored"); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{}
	cfg.Credentials.File = path

	merged, err := seedGlobalCredentials(ctx, cfg, settings)
	if err != nil {
		t.Fatalf("seedGlobalCredentials() error = %v", err)
	}
	if merged["openai"] != "sk-stored" {
		t.Errorf("openai = %q, want the stored layer to win", merged["openai"])
	}
	if merged["groq"] != "sk-file-groq" {
		t.Errorf("groq = %q, want the file value", merged["groq"])
	}
}

func TestReloadGlobalCredentialsKeepsStoredKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	ctx := context.Background()
	settings := mocks.NewMemorySettingsStore()
	if err := settings.SetGlobalDefault(ctx, "anthropic", "sk-rotated"); err != nil {
		t.Fatal(err)
	}

	// A file touch delivers only the file's contents; the rotated key must
	// survive the rebuild.
	merged, err := reloadGlobalCredentials(ctx, map[string]string{"openai": "sk-file"}, settings)
	if err != nil {
		t.Fatalf("reloadGlobalCredentials() error = %v", err)
	}
	if merged["anthropic"] != "sk-rotated" {
		t.Errorf("anthropic = %q, want the rotated key to survive the reload", merged["anthropic"])
	}
	if merged["openai"] != "sk-file" {
		t.Errorf("openai = %q, want the fresh file value", merged["openai"])
	}
}

func TestReloadGlobalCredentialsStoredWinsOverFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	ctx := context.Background()
	settings := mocks.NewMemorySettingsStore()
	if err := settings.SetGlobalDefault(ctx, "openai", "sk-rotated"); err != nil {
		t.Fatal(err)
	}

	merged, err := reloadGlobalCredentials(ctx, map[string]string{"openai": "sk-file"}, settings)
	if err != nil {
		t.Fatalf("reloadGlobalCredentials() error = %v", err)
	}
	if merged["openai"] != "sk-rotated" {
		t.Errorf("openai = %q, want the stored key over the file value", merged["openai"])
	}
}
