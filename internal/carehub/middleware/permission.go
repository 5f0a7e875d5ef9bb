package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"carehub/internal/carehub"
	"carehub/internal/domain"
	"carehub/internal/platform/telemetry"
)

// RequirePermission returns a middleware that admits the request only when
// the caller's role grants at least one of the listed permissions. It must
// run after Authenticate; with no caller in the context it rejects with 401.
// A role the catalog does not know is a deployment fault and surfaces as 500
// rather than a silent deny.
func RequirePermission(m *telemetry.Metrics, perms ...domain.Permission) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := carehub.CallerFromContext(r.Context())
			if !ok {
				writeReject(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			if _, err := domain.PermissionsFor(caller.Role); err != nil {
				if errors.Is(err, domain.ErrUnknownRole) {
					slog.Error("role missing from permission map", "role", caller.Role, "account_id", caller.ID)
					if m != nil {
						m.RecordAuthzDecision(r.Context(), "permission", "error")
					}
					writeReject(w, http.StatusInternalServerError, "Internal server error")
					return
				}
			}

			if !domain.HasAnyPermission(caller.Role, perms...) {
				if m != nil {
					m.RecordAuthzDecision(r.Context(), "permission", "denied")
				}
				writeReject(w, http.StatusForbidden, "Access denied: insufficient permissions")
				return
			}

			if m != nil {
				m.RecordAuthzDecision(r.Context(), "permission", "allowed")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole returns a middleware that admits the request only when the
// caller's role is one of the listed roles. Like RequirePermission it runs
// after Authenticate.
func RequireRole(m *telemetry.Metrics, roles ...domain.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := carehub.CallerFromContext(r.Context())
			if !ok {
				writeReject(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			if !domain.HasRole(caller.Role, roles...) {
				if m != nil {
					m.RecordAuthzDecision(r.Context(), "role", "denied")
				}
				writeReject(w, http.StatusForbidden, "Access denied: insufficient role")
				return
			}

			if m != nil {
				m.RecordAuthzDecision(r.Context(), "role", "allowed")
			}
			next.ServeHTTP(w, r)
		})
	}
}
