// Package token signs and verifies the service's bearer credentials.
// Tokens are HS256 JWTs over a process-wide shared secret; expiry is the
// only termination mechanism (no refresh, no server-side revocation).
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"carehub/internal/domain"
)

const maxClockSkew = 30 * time.Second

const issuerName = "carehub"

// Claims is the credential claim set: subject identity plus the role claim
// the permission gate evaluates against.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// HMAC issues and verifies HS256 credentials.
type HMAC struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewHMAC creates a credential codec. ttl is the validity window of issued
// tokens. clock is injectable for deterministic testing; pass time.Now in
// production.
func NewHMAC(secret []byte, ttl time.Duration, clock func() time.Time) *HMAC {
	return &HMAC{secret: secret, ttl: ttl, now: clock}
}

// Issue mints a signed credential for the account.
func (h *HMAC) Issue(account domain.Account) (string, time.Duration, error) {
	now := h.now()
	claims := Claims{
		Email: account.Email,
		Role:  string(account.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			Issuer:    issuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		return "", 0, fmt.Errorf("signing token: %w", err)
	}
	return signed, h.ttl, nil
}

// Verify parses and validates a credential and returns the caller it names.
// Expired tokens yield domain.ErrTokenExpired; every other failure (bad
// signature, wrong algorithm, garbled payload, missing claims) yields
// domain.ErrInvalidToken.
func (h *HMAC) Verify(tokenStr string) (domain.Caller, error) {
	// SECURITY: Only allow HS256 — prevents algorithm confusion attacks
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return h.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithLeeway(maxClockSkew),
		jwt.WithTimeFunc(h.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Caller{}, domain.ErrTokenExpired
		}
		return domain.Caller{}, domain.ErrInvalidToken
	}
	if !parsed.Valid {
		return domain.Caller{}, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return domain.Caller{}, domain.ErrInvalidToken
	}

	return domain.Caller{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  domain.Role(claims.Role),
	}, nil
}
