package carehub

import (
	"context"
	"net/http"
	"time"

	"carehub/internal/domain"
)

// TokenVerifier verifies a bearer credential and extracts the caller it
// names. Verification failures map to domain.ErrInvalidToken or
// domain.ErrTokenExpired.
type TokenVerifier interface {
	Verify(token string) (domain.Caller, error)
}

// TokenIssuer mints a signed credential for an account. Returns the token
// and its time-to-live.
type TokenIssuer interface {
	Issue(account domain.Account) (token string, ttl time.Duration, err error)
}

// AccountStore is the persistence collaborator for account documents.
// Lookups return domain.ErrNotFound when no document matches.
type AccountStore interface {
	FindByID(ctx context.Context, id string) (domain.Account, error)
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
	// FindByResetToken looks up by the sha256 hash of a reset token.
	FindByResetToken(ctx context.Context, tokenHash string) (domain.Account, error)
	Save(ctx context.Context, account domain.Account) error
	List(ctx context.Context) ([]domain.Account, error)
	Count(ctx context.Context) (int, error)
}

// ProfileStore persists per-account profile documents.
type ProfileStore interface {
	FindByAccountID(ctx context.Context, accountID string) (domain.Profile, error)
	Save(ctx context.Context, profile domain.Profile) error
}

// Message is an outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers outbound email through an external relay.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// RateLimiter decides whether a request identified by key should be allowed.
type RateLimiter interface {
	Allow(key string) RateLimitResult
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	RetryAfter int // seconds until next token available; 0 if allowed
}

// StatusWriter wraps http.ResponseWriter to capture the status code.
type StatusWriter struct {
	http.ResponseWriter
	Code int
}

func (sw *StatusWriter) WriteHeader(code int) {
	sw.Code = code
	sw.ResponseWriter.WriteHeader(code)
}

// CallerFromContext extracts the authenticated caller from a request context.
func CallerFromContext(ctx context.Context) (domain.Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(domain.Caller)
	return c, ok
}

// ContextWithCaller stores the authenticated caller in the context.
func ContextWithCaller(ctx context.Context, c domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

type callerKey struct{}

// AccountFromContext extracts the re-resolved account attached by the
// slow-path auth gate. Only present on routes using AuthenticateWithAccount.
func AccountFromContext(ctx context.Context) (domain.Account, bool) {
	a, ok := ctx.Value(accountKey{}).(domain.Account)
	return a, ok
}

// ContextWithAccount stores the re-resolved account in the context.
func ContextWithAccount(ctx context.Context, a domain.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, a)
}

type accountKey struct{}

// RequestIDFromContext extracts the request ID from the context.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ContextWithRequestID stores the request ID in the context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

type requestIDKey struct{}
