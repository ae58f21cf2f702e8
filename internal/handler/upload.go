package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"pinboard/internal/model"
	"pinboard/internal/service"
)

const (
	// maxUploadFormBytes allows one file plus form overhead.
	maxUploadFormBytes = model.MaxUploadSizeBytes + 1<<20

	multipartMemory = 8 << 20

	discardTimeout = 5 * time.Second
)

// parseUpload reads a multipart form capped at one upload and returns the
// file under field. Callers must call cleanup.
func parseUpload(w http.ResponseWriter, r *http.Request, field string) (multipart.File, *multipart.FileHeader, func(), error) {
	cleanup := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadFormBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return nil, nil, cleanup, model.ErrFileTooLarge
		}
		return nil, nil, cleanup, model.ErrMissingFile
	}
	cleanup = func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, cleanup, model.ErrMissingFile
	}
	inner := cleanup
	cleanup = func() {
		file.Close()
		inner()
	}
	return file, header, cleanup, nil
}

// discardUpload deletes a stored upload nothing references. It runs detached
// from the request so an expired request deadline still gets the file removed.
func discardUpload(r *http.Request, media *service.MediaService, ref string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), discardTimeout)
	defer cancel()
	media.Discard(ctx, ref)
}
