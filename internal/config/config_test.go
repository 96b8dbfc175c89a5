package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("unexpected listen addr %q", cfg.ListenAddr)
	}
	if cfg.ChatHistoryWindow != 5 {
		t.Fatalf("unexpected history window %d", cfg.ChatHistoryWindow)
	}
	if cfg.AIProvider != "deepseek" || cfg.DeepSeekModel != "deepseek-chat" {
		t.Fatalf("unexpected provider defaults: %q %q", cfg.AIProvider, cfg.DeepSeekModel)
	}
	if cfg.RabbitQueue != "legal_chat_jobs" {
		t.Fatalf("unexpected queue %q", cfg.RabbitQueue)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "listen_addr: \":9090\"\nchat_history_window: 10\ndeepseek_api_key: sk-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("file value not applied, got %q", cfg.ListenAddr)
	}
	if cfg.ChatHistoryWindow != 10 {
		t.Fatalf("file value not applied, got %d", cfg.ChatHistoryWindow)
	}
	if cfg.DeepSeekAPIKey != "sk-file" {
		t.Fatalf("file value not applied, got %q", cfg.DeepSeekAPIKey)
	}
	// untouched keys keep their defaults
	if cfg.RedisAddr != "127.0.0.1:6379" {
		t.Fatalf("default lost, got %q", cfg.RedisAddr)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TRADEBRIDGE_JWT_SECRET", "env-secret")
	t.Setenv("TRADEBRIDGE_AI_PROVIDER", "deepseek")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Fatalf("env value not applied, got %q", cfg.JWTSecret)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected an error for a missing explicit config file")
	}
}
