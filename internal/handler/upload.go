package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/deppfellow/locallibrary/internal/errs"
	"github.com/deppfellow/locallibrary/internal/middleware"
	"github.com/deppfellow/locallibrary/internal/server"
	"github.com/deppfellow/locallibrary/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UploadHandler serves the file upload form.
type UploadHandler struct {
	Handler
	upload *service.UploadService
}

// NewUploadHandler constructs an UploadHandler.
func NewUploadHandler(s *server.Server, upload *service.UploadService) *UploadHandler {
	return &UploadHandler{
		Handler: NewHandler(s),
		upload:  upload,
	}
}

func (h *UploadHandler) Form(c echo.Context) (Response, error) {
	return Page("file_upload", "File Upload", nil), nil
}

// Upload stores the submitted file. Outcomes are plain text: 400 when no
// file was sent, 500 with the write error text, else "File uploaded!".
func (h *UploadHandler) Upload(c echo.Context) (Response, error) {
	// A body that is not multipart carries no files.
	files := map[string][]*multipart.FileHeader{}
	if mf, err := c.MultipartForm(); err == nil {
		files = mf.File
	}

	if _, err := h.upload.Save(c.Request().Context(), files); err != nil {
		var httpErr *errs.HTTPError
		if !errors.As(err, &httpErr) {
			return nil, err
		}

		middleware.GetLogger(c).Warn().Err(err).Int("status", httpErr.Status).Msg("upload rejected")
		return Text{Status: httpErr.Status, Body: httpErr.Message}, nil
	}

	return Text{Status: http.StatusOK, Body: "File uploaded!"}, nil
}
