package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL    string
	DBMaxConns     int32
	DBMinConns     int32
	MigrateOnStart bool

	// Background sweep of expired refresh-token records.
	// Zero disables the sweeper.
	TokenPurgeInterval time.Duration

	// If true:
	// - /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	// Security policy:
	// If true, CAMPUS_TOKEN_HMAC_KEY MUST be set (>= 32 bytes) and
	// refresh-token hashing must be HMAC-based.
	RequireTokenHMAC bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("CAMPUS_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("CAMPUS_LOG_LEVEL", "info"),
		LogFormat: EnvString("CAMPUS_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("CAMPUS_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("CAMPUS_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("CAMPUS_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("CAMPUS_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("CAMPUS_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL:    EnvString("CAMPUS_DATABASE_URL", ""),
		DBMaxConns:     EnvInt32("CAMPUS_DB_MAX_CONNS", 10),
		DBMinConns:     EnvInt32("CAMPUS_DB_MIN_CONNS", 0),
		MigrateOnStart: EnvBool("CAMPUS_DB_MIGRATE", true),

		TokenPurgeInterval: EnvDuration("CAMPUS_TOKEN_PURGE_INTERVAL", time.Hour),

		ReadinessRequireDB: EnvBool("CAMPUS_READINESS_REQUIRE_DB", false),

		RequireTokenHMAC: EnvBool("CAMPUS_REQUIRE_TOKEN_HMAC", false),
	}
}
