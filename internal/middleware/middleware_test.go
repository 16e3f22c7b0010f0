package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/locallibrary/internal/config"
	"github.com/deppfellow/locallibrary/internal/errs"
	"github.com/deppfellow/locallibrary/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *server.Server {
	t.Helper()
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Database:      config.DatabaseConfig{Driver: config.DriverMemory},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

func newEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())
	return e
}

func TestRequestID(t *testing.T) {
	e := newEcho(testServer(t))
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Body.String())
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Body.String(), 36)
}

func TestContextEnhancerStoresLogger(t *testing.T) {
	e := newEcho(testServer(t))
	e.GET("/", func(c echo.Context) error {
		assert.NotNil(t, GetLogger(c))
		assert.Same(t, GetLogger(c), LoggerFromContext(c.Request().Context()))
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGlobalErrorHandlerJSON(t *testing.T) {
	e := newEcho(testServer(t))
	e.GET("/", func(c echo.Context) error {
		return errs.NewNotFoundError("Author not found", true, nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, errs.KindNotFound, body.Kind)
	assert.Equal(t, "Author not found", body.Message)
	assert.True(t, body.Override)
}

func TestGlobalErrorHandlerHidesUnknownErrors(t *testing.T) {
	e := newEcho(testServer(t))
	e.GET("/", func(c echo.Context) error {
		return errors.New("connection reset by peer")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
	assert.Contains(t, rec.Body.String(), "Internal Server Error")
}

func TestGlobalErrorHandlerWithoutRenderer(t *testing.T) {
	e := newEcho(testServer(t))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", rec.Body.String())
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, 200, statusOf(nil, 200))
	assert.Equal(t, 404, statusOf(errs.NewNotFoundError("x", false, nil), 200))
	assert.Equal(t, 429, statusOf(echo.NewHTTPError(http.StatusTooManyRequests), 200))
	assert.Equal(t, 500, statusOf(errors.New("boom"), 200))
}

func TestUploadRateLimit(t *testing.T) {
	s := testServer(t)
	s.Config.Upload.RateLimit = 1

	e := newEcho(s)
	e.POST("/upload", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, NewRateLimitMiddleware(s).Uploads())

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Contains(t, codes, http.StatusTooManyRequests)
}

func TestRateLimitDisabled(t *testing.T) {
	s := testServer(t)

	e := newEcho(s)
	e.POST("/upload", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, NewRateLimitMiddleware(s).Uploads())

	for range 5 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	m := NewMetrics("test")

	e := newEcho(testServer(t))
	e.Use(m.Middleware())
	e.GET("/catalog/book/:id", func(c echo.Context) error {
		return errs.NewNotFoundError("Book not found", true, nil)
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/book/42", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `test_http_requests_total{method="GET",route="/catalog/book/:id",status="404"} 1`)
	assert.True(t, strings.Contains(body, "test_http_request_duration_seconds_bucket"))
}
