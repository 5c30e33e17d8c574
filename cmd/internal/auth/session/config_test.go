package session

import (
	"errors"
	"testing"
	"time"
)

func TestLoadConfigFromEnvRequiresSecret(t *testing.T) {
	t.Setenv("CAMPUS_AUTH_JWT_SECRET", "")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig without secret, got %v", err)
	}

	t.Setenv("CAMPUS_AUTH_JWT_SECRET", "too-short")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for short secret, got %v", err)
	}
}

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("CAMPUS_AUTH_JWT_SECRET", testSecret)

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if cfg.AccessTokenTTL != 5*time.Minute {
		t.Fatalf("expected 5m access TTL, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 21*24*time.Hour {
		t.Fatalf("expected 21d refresh TTL, got %v", cfg.RefreshTokenTTL)
	}
	if cfg.ClockSkew != 0 {
		t.Fatalf("expected zero clock skew, got %v", cfg.ClockSkew)
	}
	if cfg.RefreshTokenBytes != 32 {
		t.Fatalf("expected 32 refresh token bytes, got %d", cfg.RefreshTokenBytes)
	}
}

func TestLoadConfigFromEnvOverridesAndInvariants(t *testing.T) {
	t.Setenv("CAMPUS_AUTH_JWT_SECRET", testSecret)
	t.Setenv("CAMPUS_AUTH_ACCESS_TTL", "10m")
	t.Setenv("CAMPUS_AUTH_REFRESH_TTL", "720h")
	t.Setenv("CAMPUS_AUTH_REFRESH_TOKEN_BYTES", "48")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if cfg.AccessTokenTTL != 10*time.Minute || cfg.RefreshTokenTTL != 720*time.Hour || cfg.RefreshTokenBytes != 48 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	// Refresh TTL must exceed access TTL.
	t.Setenv("CAMPUS_AUTH_ACCESS_TTL", "1h")
	t.Setenv("CAMPUS_AUTH_REFRESH_TTL", "30m")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig when refresh TTL <= access TTL, got %v", err)
	}

	t.Setenv("CAMPUS_AUTH_REFRESH_TTL", "not-a-duration")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for bad duration, got %v", err)
	}
}
