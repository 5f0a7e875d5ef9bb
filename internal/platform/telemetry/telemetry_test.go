package telemetry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"carehub/internal/platform/telemetry"
)

func TestSetupAndShutdown(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), "carehub-test")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestMetricsRecordingAndExposition(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), "carehub-test")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	t.Cleanup(func() { shutdown(context.Background()) })

	m, err := telemetry.NewMetrics()
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ctx := context.Background()
	m.RecordHTTPRequest(ctx, "POST", "/api/auth/login", 200, 0.012)
	m.RecordAuthValidation(ctx, "success")
	m.RecordAuthValidation(ctx, "expired")
	m.RecordAuthzDecision(ctx, "permission", "denied")
	m.RecordAuthzDecision(ctx, "role", "allowed")
	m.RecordLogin(ctx, "success")
	m.RecordPasswordReset(ctx, "requested")
	m.RecordRateLimitDecision(ctx, "ip", "allowed")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	telemetry.MetricsHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"carehub_http_requests_total",
		"carehub_auth_validations_total",
		"carehub_authz_decisions_total",
		"carehub_logins_total",
		"carehub_password_resets_total",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics exposition missing %s", want)
		}
	}
}
