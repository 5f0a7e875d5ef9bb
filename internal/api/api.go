// Package api implements the HTTP surface: route handlers, request
// validation and the uniform response envelope.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"carehub/internal/carehub"
	"carehub/internal/domain"
	"carehub/internal/platform/telemetry"
)

// LoginThrottle is the per-IP login limiter. The bucket is cleared after a
// successful authentication so a legitimate user who fat-fingered their
// password a few times is not locked out of their next session.
type LoginThrottle interface {
	carehub.RateLimiter
	Reset(key string)
}

// Handler holds the collaborators shared by all route handlers.
type Handler struct {
	accounts carehub.AccountStore
	profiles carehub.ProfileStore
	tokens   carehub.TokenIssuer
	mailer   carehub.Mailer
	throttle LoginThrottle
	metrics  *telemetry.Metrics
	logger   *slog.Logger
	validate *validator.Validate

	resetBaseURL string
	resetTTL     time.Duration
	now          func() time.Time
}

// Config wires a Handler. Metrics and Throttle are optional; Clock defaults
// to time.Now and ResetTTL to one hour.
type Config struct {
	Accounts carehub.AccountStore
	Profiles carehub.ProfileStore
	Tokens   carehub.TokenIssuer
	Mailer   carehub.Mailer
	Throttle LoginThrottle
	Metrics  *telemetry.Metrics
	Logger   *slog.Logger

	// ResetBaseURL is the public frontend origin embedded in password
	// reset links, e.g. https://carehub.example.com.
	ResetBaseURL string
	ResetTTL     time.Duration
	Clock        func() time.Time
}

// NewHandler builds the route handler set.
func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = time.Hour
	}
	return &Handler{
		accounts:     cfg.Accounts,
		profiles:     cfg.Profiles,
		tokens:       cfg.Tokens,
		mailer:       cfg.Mailer,
		throttle:     cfg.Throttle,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		validate:     validator.New(),
		resetBaseURL: cfg.ResetBaseURL,
		resetTTL:     cfg.ResetTTL,
		now:          cfg.Clock,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, resp domain.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("encoding response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, domain.Response{Success: false, Message: msg})
}

func (h *Handler) writeData(w http.ResponseWriter, status int, msg string, data any) {
	h.writeJSON(w, status, domain.Response{Success: true, Message: msg, Data: data})
}
