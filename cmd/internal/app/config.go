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

	// DatabaseURL selects the Postgres backend when set; otherwise the
	// server persists to the SQLite file at SQLitePath. SQLitePath empty
	// means in-memory only (tests, throwaway dev runs).
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32
	SQLitePath  string

	// FeedBuffer is the per-subscriber event buffer of the live history feed.
	FeedBuffer int

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int

	// If true:
	// - /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	// Security policy:
	// If true, SORTHUB_TOKEN_HMAC_KEY MUST be set (>= 32 bytes) and token
	// issuance must be HMAC-based.
	RequireTokenHMAC bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("SORTHUB_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("SORTHUB_LOG_LEVEL", "info"),
		LogFormat: EnvString("SORTHUB_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("SORTHUB_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("SORTHUB_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("SORTHUB_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("SORTHUB_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("SORTHUB_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("SORTHUB_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("SORTHUB_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("SORTHUB_DB_MIN_CONNS", 0),
		SQLitePath:  EnvString("SORTHUB_SQLITE_PATH", "sorthub.db"),

		FeedBuffer: EnvInt("SORTHUB_FEED_BUFFER", 8),

		CORSAllowedOrigins:   EnvStringSlice("SORTHUB_CORS_ALLOWED_ORIGINS", nil),
		CORSAllowCredentials: EnvBool("SORTHUB_CORS_ALLOW_CREDENTIALS", false),
		CORSMaxAgeSeconds:    EnvInt("SORTHUB_CORS_MAX_AGE_SECONDS", 600),

		ReadinessRequireDB: EnvBool("SORTHUB_READINESS_REQUIRE_DB", false),

		RequireTokenHMAC: EnvBool("SORTHUB_REQUIRE_TOKEN_HMAC", false),
	}
}
