package handler

import (
	"github.com/deppfellow/locallibrary/internal/server"
	"github.com/deppfellow/locallibrary/internal/service"
)

// Handlers is a container that groups all HTTP handlers.
type Handlers struct {
	Health  *HealthHandler
	Catalog *CatalogHandler
	Upload  *UploadHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		Catalog: NewCatalogHandler(s, services.Catalog),
		Upload:  NewUploadHandler(s, services.Upload),
	}
}
