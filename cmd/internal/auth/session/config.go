package session

import (
	"os"
	"strconv"
	"time"
)

// Config defines all runtime configuration for the session subsystem.
//
// It controls access-token TTL, refresh-token TTL, clock skew tolerance,
// refresh entropy size, and the JWT signing secret.
//
// This struct is intentionally explicit and environment-driven so that
// production deployments can tune security parameters without code changes.
type Config struct {
	// Issuer is the value set in the "iss" claim of access tokens.
	Issuer string

	// AccessTokenTTL defines the lifetime of JWT access tokens.
	AccessTokenTTL time.Duration

	// RefreshTokenTTL defines the lifetime of refresh-token records.
	RefreshTokenTTL time.Duration

	// ClockSkew defines the allowed time skew during token validation.
	// Zero by default: expiry is checked with no leeway.
	ClockSkew time.Duration

	// RefreshTokenBytes defines the number of random bytes used
	// to generate opaque refresh tokens.
	RefreshTokenBytes int

	// JWTSecret is the shared HS256 signing secret.
	JWTSecret string
}

// DefaultConfig returns a secure default configuration suitable for development.
//
// Production environments should override values via environment variables.
func DefaultConfig() Config {
	return Config{
		Issuer:            "campus",
		AccessTokenTTL:    5 * time.Minute,
		RefreshTokenTTL:   21 * 24 * time.Hour,
		ClockSkew:         0,
		RefreshTokenBytes: 32,
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Required:
//   - CAMPUS_AUTH_JWT_SECRET (min 32 bytes)
//
// Optional (durations must be valid Go duration strings):
//   - CAMPUS_AUTH_ISSUER
//   - CAMPUS_AUTH_ACCESS_TTL
//   - CAMPUS_AUTH_REFRESH_TTL
//   - CAMPUS_AUTH_CLOCK_SKEW
//   - CAMPUS_AUTH_REFRESH_TOKEN_BYTES
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("CAMPUS_AUTH_ISSUER"); v != "" {
		cfg.Issuer = v
	}

	if v := os.Getenv("CAMPUS_AUTH_ACCESS_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.AccessTokenTTL = d
	}

	if v := os.Getenv("CAMPUS_AUTH_REFRESH_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.RefreshTokenTTL = d
	}

	if v := os.Getenv("CAMPUS_AUTH_CLOCK_SKEW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, ErrConfig
		}
		cfg.ClockSkew = d
	}

	if v := os.Getenv("CAMPUS_AUTH_REFRESH_TOKEN_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 16 || n > 64 {
			return Config{}, ErrConfig
		}
		cfg.RefreshTokenBytes = n
	}

	cfg.JWTSecret = os.Getenv("CAMPUS_AUTH_JWT_SECRET")
	if len(cfg.JWTSecret) < 32 {
		return Config{}, ErrConfig
	}

	// Invariant: a refresh token must outlive the access tokens it mints.
	if cfg.RefreshTokenTTL <= cfg.AccessTokenTTL {
		return Config{}, ErrConfig
	}

	return cfg, nil
}
