package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GAMBIT_HTTP_ADDR", "")
	t.Setenv("GAMBIT_LOG_LEVEL", "")
	t.Setenv("GAMBIT_DATABASE_URL", "")

	cfg := LoadConfig()
	if cfg.HTTPAddr != "0.0.0.0:8080" {
		t.Fatalf("HTTPAddr=%q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Fatalf("log config=%q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.DatabaseURL != "" || cfg.ReadinessRequireDB {
		t.Fatalf("db config=%q require=%v", cfg.DatabaseURL, cfg.ReadinessRequireDB)
	}
	if cfg.DBMaxConns != 10 || cfg.DBMinConns != 0 {
		t.Fatalf("pool config=%d/%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("GAMBIT_HTTP_ADDR", "127.0.0.1:9999")
	t.Setenv("GAMBIT_LOG_LEVEL", "debug")
	t.Setenv("GAMBIT_LOG_FORMAT", "pretty")
	t.Setenv("GAMBIT_HTTP_READ_TIMEOUT", "30s")
	t.Setenv("GAMBIT_DB_MAX_CONNS", "25")
	t.Setenv("GAMBIT_READINESS_REQUIRE_DB", "true")

	cfg := LoadConfig()
	if cfg.HTTPAddr != "127.0.0.1:9999" {
		t.Fatalf("HTTPAddr=%q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "pretty" {
		t.Fatalf("log config=%q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Fatalf("ReadTimeout=%v", cfg.ReadTimeout)
	}
	if cfg.DBMaxConns != 25 {
		t.Fatalf("DBMaxConns=%d", cfg.DBMaxConns)
	}
	if !cfg.ReadinessRequireDB {
		t.Fatalf("ReadinessRequireDB not set")
	}
}
