package api

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"carehub/internal/carehub"
	"carehub/internal/carehub/adapter/mail"
	"carehub/internal/carehub/middleware"
	"carehub/internal/domain"
)

type loginResponse struct {
	Token     string             `json:"token"`
	ExpiresIn int64              `json:"expiresIn"`
	User      domain.UserSummary `json:"user"`
}

// Login authenticates an email/password pair and mints a credential.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	account, err := h.accounts.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.recordLogin(r, "invalid")
			h.writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("login lookup", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if !account.Active() {
		h.recordLogin(r, "inactive")
		h.writeError(w, http.StatusForbidden, "Account is not active")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		h.recordLogin(r, "invalid")
		h.writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	now := h.now().UTC()
	account.LastLogin = &now
	account.UpdatedAt = now
	if err := h.accounts.Save(r.Context(), account); err != nil {
		h.logger.Error("stamping last login", "error", err, "account_id", account.ID)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	token, ttl, err := h.tokens.Issue(account)
	if err != nil {
		h.logger.Error("issuing token", "error", err, "account_id", account.ID)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if h.throttle != nil {
		h.throttle.Reset(middleware.ClientIP(r))
	}
	h.recordLogin(r, "success")

	h.writeData(w, http.StatusOK, "Login successful", loginResponse{
		Token:     token,
		ExpiresIn: int64(ttl / time.Second),
		User:      account.Summary(),
	})
}

// Me returns the caller's stored account. The auth gate has already
// re-resolved and freshness-checked the document.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	account, ok := carehub.AccountFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}
	h.writeData(w, http.StatusOK, "", viewOf(account))
}

// resetMessage is the constant anti-enumeration reply: hits and misses are
// indistinguishable to the requester.
const resetMessage = "If your email is registered, you will receive a password reset link"

// ForgotPassword starts the password-reset flow.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	account, err := h.accounts.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeData(w, http.StatusOK, resetMessage, nil)
			return
		}
		h.logger.Error("reset lookup", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	token, tokenHash, err := newResetToken()
	if err != nil {
		h.logger.Error("generating reset token", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	now := h.now().UTC()
	expires := now.Add(h.resetTTL)
	account.ResetTokenHash = tokenHash
	account.ResetTokenExpires = &expires
	account.UpdatedAt = now
	if err := h.accounts.Save(r.Context(), account); err != nil {
		h.logger.Error("storing reset token", "error", err, "account_id", account.ID)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	msg, err := mail.PasswordResetMessage(account.Email, mail.PasswordResetContext{
		FirstName:   account.FirstName,
		ResetURL:    fmt.Sprintf("%s/reset-password?token=%s", h.resetBaseURL, token),
		ExpiryHours: int(h.resetTTL / time.Hour),
	})
	if err != nil {
		h.logger.Error("rendering reset email", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if err := h.mailer.Send(r.Context(), msg); err != nil {
		h.logger.Error("sending reset email", "error", err, "account_id", account.ID)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPasswordReset(r.Context(), "requested")
	}
	h.writeData(w, http.StatusOK, resetMessage, nil)
}

// ResetPassword completes the password-reset flow.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Token and password are required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Token and password are required")
		return
	}

	if !validPassword(req.Password) {
		h.writeError(w, http.StatusBadRequest,
			"Password must be at least 8 characters and include uppercase, lowercase, number, and special character")
		return
	}

	sum := sha256.Sum256([]byte(req.Token))
	account, err := h.accounts.FindByResetToken(r.Context(), hex.EncodeToString(sum[:]))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusBadRequest, "Invalid or expired token")
			return
		}
		h.logger.Error("reset token lookup", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if account.ResetTokenExpires == nil || h.now().After(*account.ResetTokenExpires) {
		h.writeError(w, http.StatusBadRequest, "Invalid or expired token")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hashing password", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	account.PasswordHash = string(hash)
	account.ResetTokenHash = ""
	account.ResetTokenExpires = nil
	account.UpdatedAt = h.now().UTC()
	if err := h.accounts.Save(r.Context(), account); err != nil {
		h.logger.Error("storing new password", "error", err, "account_id", account.ID)
		h.writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPasswordReset(r.Context(), "completed")
	}
	h.writeData(w, http.StatusOK, "Password reset successful", nil)
}

// newResetToken returns (plaintext, sha256 hex hash). Only the hash is
// persisted.
func newResetToken() (string, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generating reset token: %w", err)
	}
	token := hex.EncodeToString(raw)
	sum := sha256.Sum256([]byte(token))
	return token, hex.EncodeToString(sum[:]), nil
}

func (h *Handler) recordLogin(r *http.Request, result string) {
	if h.metrics != nil {
		h.metrics.RecordLogin(r.Context(), result)
	}
}
