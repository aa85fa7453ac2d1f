package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetrics_Exposition(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.RecordHTTPRequest("POST", "/auth/login", "200", 42*time.Millisecond)
	m.RecordAuthOperation("login", "ok")
	m.RecordAuthOperation("login", "error")

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	wantSubs := []string{
		`passport_http_requests_total{method="POST",path="/auth/login",status="200"} 1`,
		`passport_auth_operations_total{operation="login",outcome="ok"} 1`,
		`passport_auth_operations_total{operation="login",outcome="error"} 1`,
		"passport_http_request_duration_seconds_bucket",
	}
	for _, s := range wantSubs {
		if !strings.Contains(body, s) {
			t.Fatalf("expected %q in exposition output:\n%s", s, body)
		}
	}
}
