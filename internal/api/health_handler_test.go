package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubProvider struct {
	configured bool
	pingErr    error
}

func (s stubProvider) Configured() bool           { return s.configured }
func (s stubProvider) Ping(context.Context) error { return s.pingErr }

func TestHealthEndpoints(t *testing.T) {
	h := setupTestRouter(t, &providers{}, false)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "up", status.Checks["mailgun"].Status)
	assert.Equal(t, "up", status.Checks["mailchimp"].Status)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "alive")
}

func TestReadinessFailsWhenPingFails(t *testing.T) {
	h := setupTestRouter(t, &providers{pingStatus: http.StatusUnauthorized}, false)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), `"ready":false`)
}

func TestHealthChecker(t *testing.T) {
	hc := NewHealthChecker(stubProvider{configured: true}, stubProvider{configured: false}, nil)
	checks := hc.runAllChecks(context.Background())
	assert.Equal(t, "down", checks["mailchimp"].Status)
	assert.Equal(t, "not configured", checks["mailchimp"].Message)
	assert.Equal(t, "unhealthy", determineOverallStatus(checks))

	hc = NewHealthChecker(nil, stubProvider{configured: true, pingErr: errors.New("401")}, nil)
	checks = hc.runAllChecks(context.Background())
	assert.Equal(t, "down", checks["mailgun"].Status)
	assert.Equal(t, "ping failed", checks["mailchimp"].Message)
}

func TestHealthHidesProviderErrorDetail(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	pingErr := errors.New(`mailchimp API error (status 401): API Key Invalid: key abc123-us1 owned by ops@example.com`)
	hc := NewHealthChecker(stubProvider{configured: true}, stubProvider{configured: true, pingErr: pingErr}, zap.New(core))

	rr := httptest.NewRecorder()
	hc.HandleHealth(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "API Key Invalid")
	assert.NotContains(t, rr.Body.String(), "abc123")
	assert.Contains(t, rr.Body.String(), `"message":"ping failed"`)

	entries := logs.FilterMessage("mailchimp health check failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "API Key Invalid")
	assert.NotContains(t, entries[0].ContextMap()["error"], "ops@example.com")
}

func TestDetermineOverallStatus(t *testing.T) {
	assert.Equal(t, "healthy", determineOverallStatus(map[string]ComponentCheck{"a": {Status: "up"}}))
	assert.Equal(t, "degraded", determineOverallStatus(map[string]ComponentCheck{"a": {Status: "up"}, "b": {Status: "degraded"}}))
	assert.Equal(t, "unhealthy", determineOverallStatus(map[string]ComponentCheck{"a": {Status: "degraded"}, "b": {Status: "down"}}))
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5s", formatUptime(5*time.Second))
	assert.Equal(t, "2m 3s", formatUptime(2*time.Minute+3*time.Second))
	assert.Equal(t, "1d 2h 0m 0s", formatUptime(26*time.Hour))
}
