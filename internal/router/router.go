// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares, the page renderer, and the route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"fmt"
	"net/http"

	"github.com/deppfellow/locallibrary/internal/handler"
	"github.com/deppfellow/locallibrary/internal/middleware"
	"github.com/deppfellow/locallibrary/internal/server"
	"github.com/deppfellow/locallibrary/internal/view"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with the full middleware chain.
//
// Order matters: the request id comes before the New Relic transaction,
// and both before the context logger that records them.
func NewRouter(s *server.Server, h *handler.Handlers) (*echo.Echo, error) {
	renderer, err := view.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.Renderer = renderer
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Metrics.Middleware(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h, middlewares)

	router.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/catalog")
	})

	registerCatalogRoutes(router.Group("/catalog"), h.Catalog)

	router.GET("/upload", handler.Handle(h.Upload.Form))
	router.POST("/upload", handler.Handle(h.Upload.Upload),
		middlewares.RateLimit.Uploads(),
		middlewares.Global.BodyLimit(),
	)

	return router, nil
}
