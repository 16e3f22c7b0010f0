package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/locallibrary/internal/config"
	"github.com/deppfellow/locallibrary/internal/middleware"
	"github.com/deppfellow/locallibrary/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HealthHandler reports whether the service and its dependencies are
// reachable. It backs /status for monitors and load balancers.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type checkFunc func(ctx context.Context) error

// CheckHealth runs the configured checks ("database", "redis").
//
// It returns 200 when every required check passes and 503 otherwise.
// Redis is optional: a failing ping is reported but keeps the service
// healthy.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	obs := h.server.Config.Observability
	checks := make(map[string]any)
	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"driver":      h.server.Config.Database.Driver,
		"checks":      checks,
	}

	isHealthy := true

	if obs.HealthCheckEnabled("database") {
		if !h.runCheck(c.Request().Context(), logger, checks, "database", h.pingDatabase()) {
			isHealthy = false
		}
	}

	if obs.HealthCheckEnabled("redis") && h.server.Redis != nil {
		h.runCheck(c.Request().Context(), logger, checks, "redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthError(map[string]any{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")

		h.recordHealthError(map[string]any{
			"check_type":    "response",
			"operation":     "health_check",
			"error_type":    "json_response_error",
			"error_message": err.Error(),
		})

		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// pingDatabase pings whichever document store the driver selected. The
// memory store is always reachable.
func (h *HealthHandler) pingDatabase() checkFunc {
	switch {
	case h.server.DB != nil:
		return h.server.DB.Ping
	case h.server.Mongo != nil:
		return h.server.Mongo.Ping
	case h.server.Config.Database.Driver == config.DriverMemory:
		return func(context.Context) error { return nil }
	}
	return func(context.Context) error {
		return fmt.Errorf("no %s connection", h.server.Config.Database.Driver)
	}
}

func (h *HealthHandler) runCheck(parent context.Context, logger zerolog.Logger, checks map[string]any, name string, check checkFunc) bool {
	timeout := h.server.Config.Observability.HealthChecks.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	checkStart := time.Now()
	err := check(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		checks[name] = map[string]any{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}

		logger.Error().
			Err(err).
			Dur("response_time", elapsed).
			Msgf("%s health check failed", name)

		h.recordHealthError(map[string]any{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
		return false
	}

	checks[name] = map[string]any{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}

	logger.Debug().
		Dur("response_time", elapsed).
		Msgf("%s health check passed", name)
	return true
}

func (h *HealthHandler) recordHealthError(attrs map[string]any) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}
