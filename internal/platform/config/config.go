package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// CommitBackoffMaxInterval caps the wait between local commit retries of a
// ledger-confirmed approval.
const CommitBackoffMaxInterval = 2 * time.Second

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	JWTIssuer      string

	// Ledger gateway
	LedgerGatewayURL          string
	LedgerGatewayToken        string
	LedgerRequestTimeout      time.Duration
	LedgerConfirmationTimeout time.Duration
	LedgerPollInterval        time.Duration

	// Approval coordination
	ApprovalCommitAttempts int
	ApprovalLockTTL        time.Duration
	RedisURL               string
	ReconcileSchedule      string

	// Observability and edge
	SentryDSN          string
	Release            string
	PosthogAPIKey      string
	PosthogEndpoint    string
	RateLimit          string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("LEDGER_GATEWAY_URL", "http://localhost:8545")
	v.SetDefault("LEDGER_GATEWAY_TOKEN", "")
	v.SetDefault("LEDGER_REQUEST_TIMEOUT", "10s")
	v.SetDefault("LEDGER_CONFIRMATION_TIMEOUT", "2m")
	v.SetDefault("LEDGER_POLL_INTERVAL", "2s")
	v.SetDefault("APPROVAL_COMMIT_ATTEMPTS", 5)
	v.SetDefault("APPROVAL_LOCK_TTL", "10m")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("RECONCILE_SCHEDULE", "@every 5m")
	v.SetDefault("SENTRY_DSN", "")
	v.SetDefault("RELEASE", "dev")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		LedgerGatewayURL:   strings.TrimRight(v.GetString("LEDGER_GATEWAY_URL"), "/"),
		LedgerGatewayToken: v.GetString("LEDGER_GATEWAY_TOKEN"),
		RedisURL:           v.GetString("REDIS_URL"),
		ReconcileSchedule:  v.GetString("RECONCILE_SCHEDULE"),
		SentryDSN:          v.GetString("SENTRY_DSN"),
		Release:            v.GetString("RELEASE"),
		PosthogAPIKey:      v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:    v.GetString("POSTHOG_ENDPOINT"),
		RateLimit:          v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	var err error
	if cfg.LedgerRequestTimeout, err = parseDuration(v, "LEDGER_REQUEST_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.LedgerConfirmationTimeout, err = parseDuration(v, "LEDGER_CONFIRMATION_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.LedgerPollInterval, err = parseDuration(v, "LEDGER_POLL_INTERVAL"); err != nil {
		return nil, err
	}
	if cfg.ApprovalLockTTL, err = parseDuration(v, "APPROVAL_LOCK_TTL"); err != nil {
		return nil, err
	}

	cfg.ApprovalCommitAttempts = v.GetInt("APPROVAL_COMMIT_ATTEMPTS")
	if cfg.ApprovalCommitAttempts < 1 {
		log.Printf("Warning: APPROVAL_COMMIT_ATTEMPTS must be at least 1, got %d. Defaulting to 5.\n", cfg.ApprovalCommitAttempts)
		cfg.ApprovalCommitAttempts = 5
	}

	// the lock must outlive a full approval or a second approver could start mid-flight
	if worst := cfg.ApprovalWorstCase(); cfg.ApprovalLockTTL <= worst {
		return nil, fmt.Errorf("APPROVAL_LOCK_TTL (%s) must exceed the longest approval (%s): two confirmation waits of %s plus ledger calls and commit retries",
			cfg.ApprovalLockTTL, worst, cfg.LedgerConfirmationTimeout)
	}

	return cfg, nil
}

// ApprovalWorstCase bounds how long one approval can hold its lock: awaiting an
// earlier pending record, awaiting a fresh submission, the Exists and Submit
// calls, and every commit attempt with its ledger re-check and backoff wait.
func (c *Config) ApprovalWorstCase() time.Duration {
	attempts := time.Duration(c.ApprovalCommitAttempts)
	return 2*c.LedgerConfirmationTimeout +
		(attempts+1)*c.LedgerRequestTimeout +
		(attempts-1)*CommitBackoffMaxInterval
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
