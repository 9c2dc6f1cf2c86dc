// ABOUTME: Tests for widget configuration loading and merging
// ABOUTME: Covers defaults, validation, YAML loading, env var expansion, and auto-init

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault_Values(t *testing.T) {
	cfg := Default()

	if cfg.PrimaryColor != "#2563eb" {
		t.Errorf("PrimaryColor = %q, want %q", cfg.PrimaryColor, "#2563eb")
	}
	if cfg.TextColor != "#ffffff" {
		t.Errorf("TextColor = %q, want %q", cfg.TextColor, "#ffffff")
	}
	if cfg.ButtonText != "Chat" {
		t.Errorf("ButtonText = %q, want %q", cfg.ButtonText, "Chat")
	}
	if cfg.Placeholder != "Type your message..." {
		t.Errorf("Placeholder = %q, want %q", cfg.Placeholder, "Type your message...")
	}
	if cfg.Title != "Chat with us" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Chat with us")
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
	if cfg.MaxTranscript != 0 {
		t.Errorf("MaxTranscript = %d, want 0 (unbounded)", cfg.MaxTranscript)
	}
}

func TestValidate_MissingWebhookKey(t *testing.T) {
	cfg := Default().Merge(Config{APIBaseURL: "https://api.example.com"})

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error for missing webhook_key")
	}
	if !strings.Contains(err.Error(), "webhook_key") {
		t.Errorf("error = %v, want mention of webhook_key", err)
	}
}

func TestValidate_MissingAPIBaseURL(t *testing.T) {
	cfg := Default().Merge(Config{WebhookKey: "abc123"})

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error for missing api_base_url")
	}
	if !strings.Contains(err.Error(), "api_base_url") {
		t.Errorf("error = %v, want mention of api_base_url", err)
	}
}

func TestValidate_Complete(t *testing.T) {
	cfg := Default().Merge(Config{
		WebhookKey: "abc123",
		APIBaseURL: "https://api.example.com",
	})

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestMerge_OverridesOnlyNonZero(t *testing.T) {
	cfg := Default().Merge(Config{
		WebhookKey:   "abc123",
		APIBaseURL:   "https://api.example.com",
		PrimaryColor: "#ff0000",
		Title:        "Support",
	})

	if cfg.PrimaryColor != "#ff0000" {
		t.Errorf("PrimaryColor = %q, want override %q", cfg.PrimaryColor, "#ff0000")
	}
	if cfg.Title != "Support" {
		t.Errorf("Title = %q, want override %q", cfg.Title, "Support")
	}
	// Untouched fields keep their defaults
	if cfg.ButtonText != "Chat" {
		t.Errorf("ButtonText = %q, want default %q", cfg.ButtonText, "Chat")
	}
	if cfg.Placeholder != "Type your message..." {
		t.Errorf("Placeholder = %q, want default", cfg.Placeholder)
	}
}

func TestWithoutTimeout(t *testing.T) {
	cfg := Default().WithoutTimeout()

	if cfg.RequestTimeout != 0 {
		t.Errorf("RequestTimeout = %v, want 0", cfg.RequestTimeout)
	}

	// Merging a disabled timeout over defaults keeps it disabled
	merged := Default().Merge(cfg)
	if merged.RequestTimeout != 0 {
		t.Errorf("merged RequestTimeout = %v, want 0", merged.RequestTimeout)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "widget.yaml")

	configContent := `
webhook_key: "abc123"
api_base_url: "https://api.example.com"
primary_color: "#10b981"
title: "Ask our team"
request_timeout: "10s"
max_transcript: 200
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.WebhookKey != "abc123" {
		t.Errorf("WebhookKey = %q, want %q", cfg.WebhookKey, "abc123")
	}
	if cfg.APIBaseURL != "https://api.example.com" {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, "https://api.example.com")
	}
	if cfg.PrimaryColor != "#10b981" {
		t.Errorf("PrimaryColor = %q, want %q", cfg.PrimaryColor, "#10b981")
	}
	if cfg.Title != "Ask our team" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Ask our team")
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.MaxTranscript != 200 {
		t.Errorf("MaxTranscript = %d, want 200", cfg.MaxTranscript)
	}
	// Unspecified fields keep defaults
	if cfg.ButtonText != "Chat" {
		t.Errorf("ButtonText = %q, want default", cfg.ButtonText)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_WIDGET_KEY", "expanded-key")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "widget.yaml")

	configContent := `
webhook_key: "${TEST_WIDGET_KEY}"
api_base_url: "https://api.example.com"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.WebhookKey != "expanded-key" {
		t.Errorf("WebhookKey = %q, want %q", cfg.WebhookKey, "expanded-key")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "widget.yaml")

	if err := os.WriteFile(configPath, []byte(`title: "Hi"`), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("Load() = nil, want validation error")
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "widget.yaml")

	configContent := `
webhook_key: "abc123"
api_base_url: "https://api.example.com"
request_timeout: "soon"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("Load() = nil, want duration parse error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() = nil, want error for missing file")
	}
}

func TestFromEnv_NotConfigured(t *testing.T) {
	t.Setenv(EnvWebhookKey, "")
	t.Setenv(EnvAPIURL, "")

	if _, ok := FromEnv(); ok {
		t.Fatal("FromEnv() ok = true, want false when key is absent")
	}
}

func TestFromEnv_KeyOnly(t *testing.T) {
	t.Setenv(EnvWebhookKey, "env-key")
	t.Setenv(EnvAPIURL, "")

	cfg, ok := FromEnv()
	if !ok {
		t.Fatal("FromEnv() ok = false, want true")
	}
	if cfg.WebhookKey != "env-key" {
		t.Errorf("WebhookKey = %q, want %q", cfg.WebhookKey, "env-key")
	}
	if cfg.APIBaseURL != "http://localhost:8000/api" {
		t.Errorf("APIBaseURL = %q, want fallback default", cfg.APIBaseURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestFromEnv_KeyAndURL(t *testing.T) {
	t.Setenv(EnvWebhookKey, "env-key")
	t.Setenv(EnvAPIURL, "https://api.example.com")

	cfg, ok := FromEnv()
	if !ok {
		t.Fatal("FromEnv() ok = false, want true")
	}
	if cfg.APIBaseURL != "https://api.example.com" {
		t.Errorf("APIBaseURL = %q, want env value", cfg.APIBaseURL)
	}
}
