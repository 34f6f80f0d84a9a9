package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if cfg.BusinessName != "The Wellness London" {
		t.Errorf("unexpected default business name %q", cfg.BusinessName)
	}
	if cfg.FollowUpDelayHours != 24 {
		t.Errorf("expected default follow-up delay 24h, got %d", cfg.FollowUpDelayHours)
	}
	if cfg.WhatsAppSendTimeout != 10*time.Second {
		t.Errorf("expected default send timeout 10s, got %s", cfg.WhatsAppSendTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("FOLLOW_UP_DELAY_HOURS", "6")
	t.Setenv("WORKER_POLL_INTERVAL", "30s")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.LogLevel)
	}
	if !cfg.RedisTLS {
		t.Error("expected RedisTLS true")
	}
	if cfg.FollowUpDelayHours != 6 {
		t.Errorf("expected follow-up delay 6, got %d", cfg.FollowUpDelayHours)
	}
	if cfg.WorkerPollInterval != 30*time.Second {
		t.Errorf("expected poll interval 30s, got %s", cfg.WorkerPollInterval)
	}
}

func TestInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("FOLLOW_UP_DELAY_HOURS", "not-a-number")
	t.Setenv("WORKER_POLL_INTERVAL", "soon")

	cfg := Load()

	if cfg.FollowUpDelayHours != 24 {
		t.Errorf("expected fallback 24, got %d", cfg.FollowUpDelayHours)
	}
	if cfg.WorkerPollInterval != time.Minute {
		t.Errorf("expected fallback 1m, got %s", cfg.WorkerPollInterval)
	}
}
