package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("VIDEO_API_KEY", "test-key")
	t.Setenv("PORT", "")
	t.Setenv("VIDEO_MODEL", "")
	t.Setenv("GENERATE_TIMEOUT_SECONDS", "")
	t.Setenv("HISTORY_LIMIT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port mismatch: got %q want %q", cfg.Port, "8080")
	}
	if cfg.VideoModel != "replicate/google/veo-3" {
		t.Fatalf("VideoModel mismatch: got %q", cfg.VideoModel)
	}
	if cfg.GenerateTimeout != 900*time.Second {
		t.Fatalf("GenerateTimeout mismatch: got %v", cfg.GenerateTimeout)
	}
	if cfg.HistoryLimit != 20 {
		t.Fatalf("HistoryLimit mismatch: got %d", cfg.HistoryLimit)
	}
}

func TestLoadConfigRequiresAPIKey(t *testing.T) {
	t.Setenv("VIDEO_API_KEY", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when VIDEO_API_KEY is missing")
	}
}

func TestLoadConfigStretchesWriteTimeout(t *testing.T) {
	t.Setenv("VIDEO_API_KEY", "test-key")
	t.Setenv("GENERATE_TIMEOUT_SECONDS", "1200")
	t.Setenv("HTTP_WRITE_TIMEOUT_SECONDS", "30")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.HTTPWriteTimeout <= cfg.GenerateTimeout {
		t.Fatalf("HTTPWriteTimeout %v should exceed GenerateTimeout %v", cfg.HTTPWriteTimeout, cfg.GenerateTimeout)
	}
}

func TestLoadConfigSplitsCORSOrigins(t *testing.T) {
	t.Setenv("VIDEO_API_KEY", "test-key")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("CORSAllowedOrigins mismatch: %#v", cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowedOrigins[1] != "https://staging.example.com" {
		t.Fatalf("origin not trimmed: %q", cfg.CORSAllowedOrigins[1])
	}
}
