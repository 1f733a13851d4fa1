package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.KickbaseBaseURL != "https://api.kickbase.com" {
		t.Fatalf("unexpected KickbaseBaseURL: %q", cfg.KickbaseBaseURL)
	}
	if cfg.DetailCacheTTL != 5*time.Minute {
		t.Fatalf("unexpected DetailCacheTTL: %s", cfg.DetailCacheTTL)
	}
	if cfg.TeamCacheTTL != 10*time.Minute {
		t.Fatalf("unexpected TeamCacheTTL: %s", cfg.TeamCacheTTL)
	}
	if cfg.CompetitionID != "1" {
		t.Fatalf("unexpected CompetitionID: %q", cfg.CompetitionID)
	}
	if cfg.DBEnabled {
		t.Fatalf("expected DBEnabled=false by default")
	}
}

func TestLoad_DBRequiresURLWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when DB_ENABLED=true without DB_URL")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeRequiresServerWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_KickbaseCircuitParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("KICKBASE_CIRCUIT_FAILURE_COUNT", "7")
	t.Setenv("KICKBASE_CIRCUIT_OPEN_TIMEOUT", "42s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.KickbaseCircuitFailureCount != 7 {
		t.Fatalf("unexpected KickbaseCircuitFailureCount: %d", cfg.KickbaseCircuitFailureCount)
	}
	if cfg.KickbaseCircuitOpenTimeout != 42*time.Second {
		t.Fatalf("unexpected KickbaseCircuitOpenTimeout: %s", cfg.KickbaseCircuitOpenTimeout)
	}
}

func TestLoad_CacheTTLValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("DETAIL_CACHE_TTL", "-1m")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-positive DETAIL_CACHE_TTL")
	}
}
