package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds all service configuration.
type Config struct {
	Addr     string
	LogLevel string

	// JWTSecret signs all issued credentials. There is no default: a
	// service with a guessable secret is worse than one that refuses to
	// start.
	JWTSecret string
	TokenTTL  time.Duration

	// DataDir is the BadgerDB directory. Empty selects the in-memory
	// store (dev and test runs).
	DataDir string

	// ResetBaseURL is the public frontend origin embedded in password
	// reset links.
	ResetBaseURL string
	ResetTTL     time.Duration

	MaxBodyBytes int64

	SMTP       SMTPConfig
	RateLimit  RateLimitConfig
	LoginLimit RateLimitConfig

	// AdminEmail/AdminPassword bootstrap the first admin account when the
	// store is empty.
	AdminEmail    string
	AdminPassword string
}

// SMTPConfig holds mail relay settings. An empty Host selects the log-only
// mailer.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// RateLimitConfig holds token bucket parameters for per-IP rate limiting.
type RateLimitConfig struct {
	Rate  float64
	Burst int
}

// ErrMissingJWTSecret is returned by Load when CAREHUB_JWT_SECRET is unset.
var ErrMissingJWTSecret = errors.New("CAREHUB_JWT_SECRET is required")

// Load reads configuration from environment variables, falling back to
// defaults for everything but the signing secret.
func Load() (Config, error) {
	cfg := Config{
		Addr:         envOr("CAREHUB_ADDR", ":8080"),
		LogLevel:     envOr("LOG_LEVEL", "info"),
		JWTSecret:    os.Getenv("CAREHUB_JWT_SECRET"),
		TokenTTL:     envDuration("CAREHUB_TOKEN_TTL", 24*time.Hour),
		DataDir:      os.Getenv("CAREHUB_DATA_DIR"),
		ResetBaseURL: envOr("CAREHUB_RESET_BASE_URL", "http://localhost:3000"),
		ResetTTL:     envDuration("CAREHUB_RESET_TTL", time.Hour),
		MaxBodyBytes: int64(envInt("CAREHUB_MAX_BODY_BYTES", 1<<20)),
		SMTP: SMTPConfig{
			Host: os.Getenv("CAREHUB_SMTP_HOST"),
			Port: envInt("CAREHUB_SMTP_PORT", 587),
			User: os.Getenv("CAREHUB_SMTP_USER"),
			Pass: os.Getenv("CAREHUB_SMTP_PASS"),
			From: envOr("CAREHUB_SMTP_FROM", "no-reply@carehub.local"),
		},
		RateLimit: RateLimitConfig{
			Rate:  envFloat("CAREHUB_RATE_LIMIT_RATE", 100),
			Burst: envInt("CAREHUB_RATE_LIMIT_BURST", 20),
		},
		LoginLimit: RateLimitConfig{
			Rate:  envFloat("CAREHUB_LOGIN_RATE_LIMIT_RATE", 0.2),
			Burst: envInt("CAREHUB_LOGIN_RATE_LIMIT_BURST", 5),
		},
		AdminEmail:    os.Getenv("CAREHUB_ADMIN_EMAIL"),
		AdminPassword: os.Getenv("CAREHUB_ADMIN_PASSWORD"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}
		return n
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			slog.Warn("invalid float env var, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}
		return f
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}
		return d
	}
	return fallback
}
