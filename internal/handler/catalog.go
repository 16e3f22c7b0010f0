package handler

import (
	"github.com/deppfellow/locallibrary/internal/middleware"
	"github.com/deppfellow/locallibrary/internal/server"
	"github.com/deppfellow/locallibrary/internal/service"
	"github.com/deppfellow/locallibrary/internal/validation"
	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the /catalog pages.
type CatalogHandler struct {
	Handler
	catalog *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(s *server.Server, catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		Handler: NewHandler(s),
		catalog: catalog,
	}
}

type indexContent struct {
	Counts service.IndexResult
	Error  string
}

// Index renders the home page with the record counts. A failed count is
// shown as missing together with the error.
func (h *CatalogHandler) Index(c echo.Context) (Response, error) {
	counts, err := h.catalog.Index(c.Request().Context())

	content := indexContent{Counts: counts}
	if err != nil {
		middleware.GetLogger(c).Error().Err(err).Msg("failed to load record counts")
		content.Error = err.Error()
	}

	return Page("index", "Local Library Home", content), nil
}

// deleteID is the id a delete form targets: the hidden field if submitted,
// else the path id.
func deleteID(c echo.Context, form *validation.Form, field string) string {
	if id := form.Get(field); id != "" {
		return id
	}
	return c.Param("id")
}
