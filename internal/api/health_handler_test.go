package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/htmx-demo/internal/render"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func newTestHealthChecker(t *testing.T, client *redis.Client) *HealthChecker {
	t.Helper()
	renderer, err := render.New()
	require.NoError(t, err)
	return NewHealthChecker(renderer, 234, client)
}

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthStatus {
	t.Helper()
	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	return status
}

func TestHealthWithoutRedis(t *testing.T) {
	hc := newTestHealthChecker(t, nil)
	rec := httptest.NewRecorder()
	hc.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	status := decodeHealth(t, rec)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, healthVersion, status.Version)
	assert.Equal(t, "up", status.Checks["templates"].Status)
	assert.Equal(t, "234 people", status.Checks["fixtures"].Message)
	assert.Equal(t, msgNotConfigured, status.Checks["redis"].Message)
}

func TestHealthWithRedis(t *testing.T) {
	_, client := setupTestRedis(t)
	hc := newTestHealthChecker(t, client)

	rec := httptest.NewRecorder()
	hc.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	status := decodeHealth(t, rec)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "up", status.Checks["redis"].Status)
	assert.Equal(t, "connected", status.Checks["redis"].Message)
}

func TestReadinessRedisDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	hc := newTestHealthChecker(t, client)
	mr.Close()

	rec := httptest.NewRecorder()
	hc.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["ready"])
	assert.Equal(t, "unhealthy", body["status"])
}

func TestLiveness(t *testing.T) {
	hc := newTestHealthChecker(t, nil)
	rec := httptest.NewRecorder()
	hc.HandleLiveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"alive"`)
}

func TestHealthRoutesMounted(t *testing.T) {
	app := setupTestApp(t, false)
	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec := app.get(path, false)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json", path)
	}
}

func TestDetermineOverallStatus(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]ComponentCheck
		want   string
	}{
		{
			name: "all up",
			checks: map[string]ComponentCheck{
				"templates": {Status: "up"},
				"redis":     {Status: "down", Message: msgNotConfigured},
			},
			want: "healthy",
		},
		{
			name: "templates down",
			checks: map[string]ComponentCheck{
				"templates": {Status: "down"},
			},
			want: "unhealthy",
		},
		{
			name: "redis configured but down",
			checks: map[string]ComponentCheck{
				"templates": {Status: "up"},
				"redis":     {Status: "down", Message: "ping failed"},
			},
			want: "unhealthy",
		},
		{
			name: "no fixtures",
			checks: map[string]ComponentCheck{
				"templates": {Status: "up"},
				"fixtures":  {Status: "degraded"},
			},
			want: "degraded",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineOverallStatus(tt.checks))
		})
	}
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5s", formatUptime(5*time.Second))
	assert.Equal(t, "2m 3s", formatUptime(2*time.Minute+3*time.Second))
	assert.Equal(t, "1h 0m 0s", formatUptime(time.Hour))
	assert.Equal(t, "3d 4h 12m 5s", formatUptime(76*time.Hour+12*time.Minute+5*time.Second))
}
