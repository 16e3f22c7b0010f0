package service

import (
	"github.com/deppfellow/locallibrary/internal/lib/job"
	"github.com/deppfellow/locallibrary/internal/repository"
	"github.com/deppfellow/locallibrary/internal/server"
)

// Services is a container for all application services.
type Services struct {
	Catalog *CatalogService
	Upload  *UploadService
	Job     *job.JobService
}

// NewService wires the services on top of the repositories and the
// optional job queue.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var (
		notifier BookNotifier
		mirrorer UploadMirrorer
	)
	if s.Job != nil {
		notifier = s.Job
		if s.Mirror != nil {
			mirrorer = s.Job
		}
	}

	return &Services{
		Catalog: NewCatalogService(repos, notifier, s.Logger),
		Upload:  NewUploadService(s.Uploads, mirrorer, s.Logger),
		Job:     s.Job,
	}, nil
}
