package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestCountersExposed(t *testing.T) {
	m := New()
	m.LoginAttempt(LoginSucceeded)
	m.LoginAttempt(LoginRejected)
	m.LoginAttempt(LoginRejected)
	m.ProductFetch(FetchError)
	m.ObserveRequest(http.MethodGet, "/dashboard", http.StatusOK, 15*time.Millisecond)

	out := scrape(t, m)
	require.Contains(t, out, `portal_login_attempts_total{outcome="rejected"} 2`)
	require.Contains(t, out, `portal_login_attempts_total{outcome="success"} 1`)
	require.Contains(t, out, `portal_product_fetches_total{outcome="error"} 1`)
	require.Contains(t, out, `portal_http_request_duration_seconds_count{method="GET",route="/dashboard",status="200"} 1`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.LoginAttempt(LoginError)
	m.ProductFetch(FetchOK)
	m.ObserveRequest(http.MethodGet, "", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
