package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/deppfellow/locallibrary/internal/config"
	"github.com/deppfellow/locallibrary/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthServer(driver string) *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Database:      config.DatabaseConfig{Driver: driver},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

func checkHealth(t *testing.T, s *server.Server) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	e.GET("/status", NewHealthHandler(s).CheckHealth)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealthMemoryWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	s := healthServer(config.DriverMemory)
	s.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer s.Redis.Close()

	code, body := checkHealth(t, s)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])

	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"].(map[string]any)["status"])
	assert.Equal(t, "healthy", checks["redis"].(map[string]any)["status"])
}

func TestHealthRedisDownStaysHealthy(t *testing.T) {
	mr := miniredis.RunT(t)
	s := healthServer(config.DriverMemory)
	s.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer s.Redis.Close()
	mr.Close()

	code, body := checkHealth(t, s)
	assert.Equal(t, http.StatusOK, code)

	checks := body["checks"].(map[string]any)
	assert.Equal(t, "unhealthy", checks["redis"].(map[string]any)["status"])
}

func TestHealthMissingDatabase(t *testing.T) {
	code, body := checkHealth(t, healthServer(config.DriverPostgres))

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body["status"])
}

func TestHealthChecksDisabled(t *testing.T) {
	s := healthServer(config.DriverPostgres)
	s.Config.Observability.HealthChecks.Enabled = false

	code, body := checkHealth(t, s)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["checks"])
}
