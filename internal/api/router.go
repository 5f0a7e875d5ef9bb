package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carehub/internal/carehub"
	"carehub/internal/carehub/middleware"
	"carehub/internal/domain"
	"carehub/internal/platform/telemetry"
)

// RouterConfig wires the route tree.
type RouterConfig struct {
	Handler  *Handler
	Verifier carehub.TokenVerifier
	Accounts carehub.AccountStore
	Metrics  *telemetry.Metrics
	Logger   *slog.Logger

	// GlobalLimiter throttles all traffic per IP; LoginLimiter applies a
	// stricter budget to the credential endpoints on top of it.
	GlobalLimiter carehub.RateLimiter
	LoginLimiter  carehub.RateLimiter

	MaxBodyBytes int64
}

// NewRouter assembles the full route tree with the middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}

	h := cfg.Handler
	r := chi.NewRouter()

	r.Use(
		middleware.Metrics(cfg.Metrics),
		middleware.RequestID,
		middleware.Logging(cfg.Logger),
		middleware.Recovery,
		middleware.MaxBodySize(cfg.MaxBodyBytes),
	)
	if cfg.GlobalLimiter != nil {
		r.Use(middleware.RateLimit(cfg.GlobalLimiter, cfg.Metrics))
	}

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Method(http.MethodGet, "/metrics", telemetry.MetricsHandler())

	authed := middleware.Authenticate(cfg.Verifier, cfg.Metrics)
	resolved := middleware.AuthenticateWithAccount(cfg.Verifier, cfg.Accounts, cfg.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			credential := r
			if cfg.LoginLimiter != nil {
				credential = r.With(middleware.RateLimit(cfg.LoginLimiter, cfg.Metrics))
			}
			credential.Post("/login", h.Login)
			credential.Post("/forgot-password", h.ForgotPassword)
			credential.Post("/reset-password", h.ResetPassword)

			r.With(resolved).Get("/me", h.Me)
		})

		r.Route("/profile", func(r chi.Router) {
			r.With(authed, middleware.RequirePermission(cfg.Metrics, domain.PermUserViewSelf)).
				Get("/", h.GetProfile)
			r.With(resolved, middleware.RequirePermission(cfg.Metrics, domain.PermUserEditSelf)).
				Put("/", h.UpdateProfile)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authed, middleware.RequireRole(cfg.Metrics, domain.RoleAdmin))
			r.With(middleware.RequirePermission(cfg.Metrics, domain.PermUserViewAny)).
				Get("/users", h.ListUsers)
			r.With(middleware.RequirePermission(cfg.Metrics, domain.PermUserManageRoles)).
				Patch("/users/{id}/role", h.UpdateUserRole)
		})
	})

	return r
}
