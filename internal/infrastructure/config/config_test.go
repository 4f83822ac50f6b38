package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/iho/bankchat/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.StorageBackend != config.StorageFile {
		t.Fatalf("expected default backend %q, got %q", config.StorageFile, cfg.StorageBackend)
	}

	if cfg.StorageSlot != "banking-chatbot-storage" {
		t.Fatalf("expected default slot, got %q", cfg.StorageSlot)
	}

	if cfg.ChatDelay != time.Second {
		t.Fatalf("expected default chat delay of 1s, got %s", cfg.ChatDelay)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.UsesRedis() {
		t.Fatalf("expected redis to be unused by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CHAT_DELAY", "250ms")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.StorageBackend != config.StorageRedis || !cfg.UsesRedis() {
		t.Fatalf("expected redis backend, got %s", cfg.StorageBackend)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.ChatDelay != 250*time.Millisecond {
		t.Fatalf("expected chat delay override, got %s", cfg.ChatDelay)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit override, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "mongodb")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for unknown storage backend")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "empty slot", mutate: func(c *config.Config) { c.StorageSlot = "" }, wantErr: true},
		{name: "negative delay", mutate: func(c *config.Config) { c.ChatDelay = -time.Second }, wantErr: true},
		{name: "zero queue", mutate: func(c *config.Config) { c.ChatQueueSize = 0 }, wantErr: true},
		{name: "negative rps", mutate: func(c *config.Config) { c.RateLimitRPS = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				StorageBackend: config.StorageMemory,
				StorageSlot:    "slot",
				ChatQueueSize:  1,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
