package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("server defaults = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level default = %q", cfg.Logging.Level)
	}
	if cfg.DB.Path == "" {
		t.Error("expected a default database path")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_PATH", "/tmp/plans.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.DB.Path != "/tmp/plans.db" {
		t.Errorf("db path = %q", cfg.DB.Path)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("SERVER_PORT", "-1")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid port")
	}

	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("LOG_LEVEL", "verbose")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestGetEnvIntFallback(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want fallback 8080", cfg.Server.Port)
	}
}
