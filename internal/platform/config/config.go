// Package config builds runtime configuration from environment variables so
// main stays lean. Empty infrastructure URLs mean "run without": no
// DATABASE_URL gives in-memory stores, no REDIS_URL disables the claim
// cache, no KAFKA_BROKERS disables the audit relay.
package config

import (
	"os"
	"strconv"
	"time"

	pstrings "byggekrav/pkg/platform/strings"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	DatabaseURL  string
	Redis        RedisConfig
	KafkaBrokers []string

	// DevPartyID, when set, onboards that party at startup and logs the
	// generated API key once. Development convenience only.
	DevPartyID string

	// Contractual overrides for the client response deadlines, in days.
	// Zero keeps the NS 8407 defaults.
	PassivityCriticalDays int
	PassivityWarningDays  int

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// RedisConfig carries connection settings for the claim snapshot cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("BYGGEKRAV_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development fallback; deployments must override.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	brokers := pstrings.SplitList(os.Getenv("KAFKA_BROKERS"))

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     envDefault("JWT_ISSUER", "byggekrav"),
		JWTAudience:   envDefault("JWT_AUDIENCE", "byggekrav-api"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		KafkaBrokers: brokers,

		DevPartyID: os.Getenv("BYGGEKRAV_DEV_PARTY_ID"),

		PassivityCriticalDays: envInt("DEADLINE_PASSIVITY_CRITICAL_DAYS", 0),
		PassivityWarningDays:  envInt("DEADLINE_PASSIVITY_WARNING_DAYS", 0),

		RequestTimeout:  envDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
