package service

import (
	"context"
	"mime/multipart"
	"sort"

	"github.com/deppfellow/locallibrary/internal/errs"
	"github.com/deppfellow/locallibrary/internal/lib/job"
	"github.com/deppfellow/locallibrary/internal/lib/storage"
	"github.com/rs/zerolog"
)

// UploadField is the preferred multipart field of the upload form.
const UploadField = "sampleFile"

// UploadMirrorer schedules mirroring uploaded files to object storage.
type UploadMirrorer interface {
	EnqueueUploadMirror(ctx context.Context, p job.UploadMirrorPayload) error
}

// UploadService writes uploaded files into the upload directory.
type UploadService struct {
	store    *storage.LocalStore
	mirrorer UploadMirrorer
	logger   *zerolog.Logger
}

// NewUploadService creates the upload service. mirrorer may be nil.
func NewUploadService(store *storage.LocalStore, mirrorer UploadMirrorer, logger *zerolog.Logger) *UploadService {
	return &UploadService{
		store:    store,
		mirrorer: mirrorer,
		logger:   logger,
	}
}

// Save stores one file of files: the UploadField file if present, else the
// first file by field name. The client filename is used as is.
//
// No files yields a 400 error. A failed write yields a 500 error whose
// message is the write error text.
func (s *UploadService) Save(ctx context.Context, files map[string][]*multipart.FileHeader) (string, error) {
	fh := pickFile(files)
	if fh == nil {
		return "", errs.NewBadRequestError("No files were uploaded.", true, nil, nil, nil)
	}

	src, err := fh.Open()
	if err != nil {
		return "", errs.NewInfrastructureError(err).WithMessage(err.Error())
	}
	defer src.Close()

	path, err := s.store.Save(fh.Filename, src)
	if err != nil {
		return "", errs.NewInfrastructureError(err).WithMessage(err.Error())
	}

	s.logger.Info().Str("file", fh.Filename).Int64("size", fh.Size).Msg("file uploaded")

	if s.mirrorer != nil {
		if err := s.mirrorer.EnqueueUploadMirror(ctx, job.UploadMirrorPayload{Name: fh.Filename, Path: path}); err != nil {
			s.logger.Warn().Err(err).Str("file", fh.Filename).Msg("failed to enqueue upload mirror")
		}
	}
	return path, nil
}

func pickFile(files map[string][]*multipart.FileHeader) *multipart.FileHeader {
	if fhs := files[UploadField]; len(fhs) > 0 {
		return fhs[0]
	}

	fields := make([]string, 0, len(files))
	for field := range files {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		if fhs := files[field]; len(fhs) > 0 {
			return fhs[0]
		}
	}
	return nil
}
