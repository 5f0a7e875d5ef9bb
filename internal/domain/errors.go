package domain

import "errors"

// Sentinel errors used across service boundaries.
var (
	// ErrNoCredential: no bearer token was presented at all.
	ErrNoCredential = errors.New("authorization token required")
	// ErrInvalidToken: token present but malformed or badly signed.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired: token verified but past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidCredentials: login rejected (wrong email or password).
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden: authenticated but lacking the required permission or role.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound: the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAccountInactive: the stored account is not in active status.
	ErrAccountInactive = errors.New("account is not active")
	// ErrUnknownRole: a role outside the fixed role table was asked of the
	// role-permission map. Programmer/deployment error, not caller error;
	// surfaces as a 500, never a 403.
	ErrUnknownRole = errors.New("unknown role")
)

// Response is the uniform JSON envelope for every API response.
// Rejections always carry {"success": false, "message": ...}.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}
