package handler

import (
	"net/http"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/filestore"
	"github.com/scootcare/support-platform/internal/model"
)

// UploadHandler accepts attachment uploads. The upload completes before any
// message referencing it is created, so a failed upload never leaves a message
// with a dangling attachment.
type UploadHandler struct {
	files *filestore.Store
}

// NewUploadHandler creates an upload handler.
func NewUploadHandler(files *filestore.Store) *UploadHandler {
	return &UploadHandler{files: files}
}

// Upload handles POST /api/v1/uploads (multipart form, field "file").
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(filestore.MaxUploadSize); err != nil {
		writeError(w, errs.Validation("file", "must be a multipart upload within the size limit"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errs.Validation("file", "is required"))
		return
	}
	defer file.Close()

	url, size, err := h.files.Save(header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.Attachment{
		URL:  url,
		Name: header.Filename,
		Mime: header.Header.Get("Content-Type"),
		Size: size,
	})
}
