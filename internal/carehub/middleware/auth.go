package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"carehub/internal/carehub"
	"carehub/internal/domain"
	"carehub/internal/platform/telemetry"
)

// Authenticate returns a middleware that validates the Bearer credential and
// attaches the caller it names to the request context. Rejections are
// terminal: 401 when no credential is presented, 403 when the credential is
// invalid or expired.
// The metrics parameter is optional; pass nil to skip metric recording.
func Authenticate(verifier carehub.TokenVerifier, m *telemetry.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := extractBearerToken(r)
			if !ok {
				if m != nil {
					m.RecordAuthValidation(r.Context(), "missing")
				}
				writeReject(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			caller, err := verifier.Verify(tokenStr)
			if err != nil {
				slog.Debug("token verification failed", "error", err)
				if errors.Is(err, domain.ErrTokenExpired) {
					if m != nil {
						m.RecordAuthValidation(r.Context(), "expired")
					}
					writeReject(w, http.StatusForbidden, "Token expired")
					return
				}
				if m != nil {
					m.RecordAuthValidation(r.Context(), "invalid")
				}
				writeReject(w, http.StatusForbidden, "Invalid token")
				return
			}

			if m != nil {
				m.RecordAuthValidation(r.Context(), "success")
			}
			ctx := carehub.ContextWithCaller(r.Context(), caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthenticateWithAccount behaves like Authenticate but additionally
// re-resolves the caller's account from the store, so stale claims cannot
// outlive a deleted or suspended account. Used on routes where freshness
// matters more than the extra lookup: 404 when the account no longer exists,
// 403 when it is not active.
func AuthenticateWithAccount(verifier carehub.TokenVerifier, store carehub.AccountStore, m *telemetry.Metrics) Middleware {
	authenticate := Authenticate(verifier, m)
	return func(next http.Handler) http.Handler {
		resolve := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := carehub.CallerFromContext(r.Context())
			if !ok {
				writeReject(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			account, err := store.FindByID(r.Context(), caller.ID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					if m != nil {
						m.RecordAuthValidation(r.Context(), "not_found")
					}
					writeReject(w, http.StatusNotFound, "User not found")
					return
				}
				slog.Error("resolving account", "error", err, "account_id", caller.ID)
				writeReject(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			if !account.Active() {
				if m != nil {
					m.RecordAuthValidation(r.Context(), "inactive")
				}
				writeReject(w, http.StatusForbidden, "Account is not active")
				return
			}

			// The stored role wins over the claim: role changes take effect
			// without waiting for token expiry.
			caller.Role = account.Role
			ctx := carehub.ContextWithCaller(r.Context(), caller)
			ctx = carehub.ContextWithAccount(ctx, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
		return authenticate(resolve)
	}
}

func extractBearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", false
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
