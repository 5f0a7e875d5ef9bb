package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"carehub/internal/api"
	"carehub/internal/carehub"
	"carehub/internal/carehub/adapter/inmem"
	"carehub/internal/domain"
	"carehub/internal/testutil"
)

type captureMailer struct {
	messages []carehub.Message
}

func (m *captureMailer) Send(_ context.Context, msg carehub.Message) error {
	m.messages = append(m.messages, msg)
	return nil
}

func newHandler(t *testing.T, accounts *inmem.Store) (*api.Handler, *captureMailer) {
	t.Helper()
	mailer := &captureMailer{}
	h := api.NewHandler(api.Config{
		Accounts:     accounts,
		Profiles:     inmem.NewProfileStore(),
		Tokens:       testutil.Codec(),
		Mailer:       mailer,
		ResetBaseURL: "https://carehub.example.com",
	})
	return h, mailer
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling body: %v", err)
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	handler(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) domain.Response {
	t.Helper()
	var resp domain.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestLoginSuccess(t *testing.T) {
	account := testutil.Account(t, domain.RoleCaregiver)
	store := testutil.SeedStore(t, account)
	h, _ := newHandler(t, store)

	rec := postJSON(t, h.Login, "/api/auth/login", map[string]string{
		"email":    account.Email,
		"password": testutil.TestPassword,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.Message != "Login successful" {
		t.Errorf("unexpected message %q", resp.Message)
	}

	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %T", resp.Data)
	}
	tokenStr, _ := data["token"].(string)
	if tokenStr == "" {
		t.Fatal("expected token in response")
	}

	caller, err := testutil.Codec().Verify(tokenStr)
	if err != nil {
		t.Fatalf("issued token should verify: %v", err)
	}
	if caller.ID != account.ID {
		t.Errorf("expected subject %q, got %q", account.ID, caller.ID)
	}

	user, _ := data["user"].(map[string]any)
	if user["email"] != account.Email {
		t.Errorf("expected user email %q, got %v", account.Email, user["email"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Error("response must not carry the password hash")
	}

	// LastLogin stamped
	stored, err := store.FindByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.LastLogin == nil {
		t.Error("expected LastLogin to be stamped")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	account := testutil.Account(t, domain.RoleCaregiver)
	store := testutil.SeedStore(t, account)
	h, _ := newHandler(t, store)

	rec := postJSON(t, h.Login, "/api/auth/login", map[string]string{
		"email":    account.Email,
		"password": "Wrong#Password1",
	})

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Message != "Invalid credentials" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	h, _ := newHandler(t, testutil.SeedStore(t))

	rec := postJSON(t, h.Login, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "Whatever#1x",
	})

	// Unknown email and wrong password are indistinguishable
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Message != "Invalid credentials" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	account := testutil.Account(t, domain.RoleCaregiver)
	account.Status = domain.StatusPending
	store := testutil.SeedStore(t, account)
	h, _ := newHandler(t, store)

	rec := postJSON(t, h.Login, "/api/auth/login", map[string]string{
		"email":    account.Email,
		"password": testutil.TestPassword,
	})

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Message != "Account is not active" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestLoginMissingFields(t *testing.T) {
	h, _ := newHandler(t, testutil.SeedStore(t))

	tests := []map[string]string{
		{"email": "user@example.com"},
		{"password": "Whatever#1x"},
		{},
	}
	for _, body := range tests {
		rec := postJSON(t, h.Login, "/api/auth/login", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %v: expected 400, got %d", body, rec.Code)
		}
		resp := decodeResponse(t, rec)
		if resp.Message != "Email and password are required" {
			t.Errorf("unexpected message %q", resp.Message)
		}
	}
}

func TestForgotPasswordFlowResetsPassword(t *testing.T) {
	account := testutil.Account(t, domain.RoleCareRecipient)
	store := testutil.SeedStore(t, account)
	h, mailer := newHandler(t, store)

	rec := postJSON(t, h.ForgotPassword, "/api/auth/forgot-password", map[string]string{
		"email": account.Email,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if len(mailer.messages) != 1 {
		t.Fatalf("expected one reset email, got %d", len(mailer.messages))
	}
	msg := mailer.messages[0]
	if msg.To != account.Email {
		t.Errorf("expected recipient %q, got %q", account.Email, msg.To)
	}

	token := extractResetToken(t, msg.Text)

	rec = postJSON(t, h.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": "NewSecret#42",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if resp.Message != "Password reset successful" {
		t.Errorf("unexpected message %q", resp.Message)
	}

	// New password works, token is single use
	rec = postJSON(t, h.Login, "/api/auth/login", map[string]string{
		"email":    account.Email,
		"password": "NewSecret#42",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("login with new password: expected 200, got %d", rec.Code)
	}

	rec = postJSON(t, h.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": "Another#Secret9",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("reused token: expected 400, got %d", rec.Code)
	}
}

func TestForgotPasswordUnknownEmailIndistinguishable(t *testing.T) {
	account := testutil.Account(t, domain.RoleCaregiver)
	store := testutil.SeedStore(t, account)
	h, mailer := newHandler(t, store)

	hit := postJSON(t, h.ForgotPassword, "/api/auth/forgot-password", map[string]string{
		"email": account.Email,
	})
	miss := postJSON(t, h.ForgotPassword, "/api/auth/forgot-password", map[string]string{
		"email": "stranger@example.com",
	})

	if hit.Code != http.StatusOK || miss.Code != http.StatusOK {
		t.Fatalf("expected 200/200, got %d/%d", hit.Code, miss.Code)
	}
	hitResp := decodeResponse(t, hit)
	missResp := decodeResponse(t, miss)
	if hitResp.Message != missResp.Message {
		t.Error("hit and miss replies must be identical")
	}
	if len(mailer.messages) != 1 {
		t.Errorf("expected exactly one email sent, got %d", len(mailer.messages))
	}
}

func TestResetPasswordWeakPassword(t *testing.T) {
	h, _ := newHandler(t, testutil.SeedStore(t))

	weak := []string{"short1!", "nouppercase1!", "NOLOWERCASE1!", "NoDigits!!", "NoSpecials11"}
	for _, pw := range weak {
		rec := postJSON(t, h.ResetPassword, "/api/auth/reset-password", map[string]string{
			"token":    "whatever",
			"password": pw,
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("password %q: expected 400, got %d", pw, rec.Code)
		}
		resp := decodeResponse(t, rec)
		if !strings.Contains(resp.Message, "at least 8 characters") {
			t.Errorf("password %q: unexpected message %q", pw, resp.Message)
		}
	}
}

func TestResetPasswordBogusToken(t *testing.T) {
	h, _ := newHandler(t, testutil.SeedStore(t))

	rec := postJSON(t, h.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    "not-a-real-token",
		"password": "Strong#Pass1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Message != "Invalid or expired token" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	account := testutil.Account(t, domain.RoleCaregiver)
	store := testutil.SeedStore(t, account)

	mailer := &captureMailer{}
	clock := time.Now()
	h := api.NewHandler(api.Config{
		Accounts:     store,
		Profiles:     inmem.NewProfileStore(),
		Tokens:       testutil.Codec(),
		Mailer:       mailer,
		ResetBaseURL: "https://carehub.example.com",
		ResetTTL:     time.Hour,
		Clock:        func() time.Time { return clock },
	})

	rec := postJSON(t, h.ForgotPassword, "/api/auth/forgot-password", map[string]string{
		"email": account.Email,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	token := extractResetToken(t, mailer.messages[0].Text)

	clock = clock.Add(2 * time.Hour)

	rec = postJSON(t, h.ResetPassword, "/api/auth/reset-password", map[string]string{
		"token":    token,
		"password": "Strong#Pass1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for expired token, got %d", rec.Code)
	}
}

func extractResetToken(t *testing.T, body string) string {
	t.Helper()
	idx := strings.Index(body, "token=")
	if idx < 0 {
		t.Fatalf("no reset token in email body: %q", body)
	}
	rest := body[idx+len("token="):]
	if end := strings.IndexAny(rest, " .\n"); end >= 0 {
		rest = rest[:end]
	}
	token, err := url.QueryUnescape(rest)
	if err != nil {
		t.Fatalf("unescaping token: %v", err)
	}
	return token
}
