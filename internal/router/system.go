package router

import (
	"github.com/deppfellow/locallibrary/internal/handler"
	"github.com/deppfellow/locallibrary/internal/middleware"
	"github.com/deppfellow/locallibrary/internal/view"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints that are not catalog pages:
// health, metrics, and the embedded static assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/metrics", echo.WrapHandler(m.Metrics.Handler()))

	r.StaticFS("/static", view.Static())
}
