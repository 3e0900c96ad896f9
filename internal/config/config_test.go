package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("TOKEN_TTL_HOURS", "")

	// t.Setenv with "" still marks the variable as present, so unset keys
	// are exercised via getEnv directly.
	if got := getEnv("FAIRSPLIT_TEST_MISSING_KEY", "fallback"); got != "fallback" {
		t.Errorf("getEnv default = %q, want fallback", got)
	}
	if got := getEnvInt("FAIRSPLIT_TEST_MISSING_KEY", 72); got != 72 {
		t.Errorf("getEnvInt default = %d, want 72", got)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://app@db/fairsplit")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL_HOURS", "24")

	cfg := Load()
	if cfg.DatabaseURL != "postgres://app@db/fairsplit" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("TOKEN_TTL_HOURS", "not-a-number")
	if got := getEnvInt("TOKEN_TTL_HOURS", 72); got != 72 {
		t.Errorf("getEnvInt = %d, want default 72", got)
	}
}
