package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path"
	"strings"

	"github.com/google/uuid"

	"pinboard/internal/model"
	"pinboard/internal/storage"
)

// maxExtLength bounds the kept extension, dot included.
const maxExtLength = 10

// MediaService validates uploads and persists them under system-assigned names.
type MediaService struct {
	store   storage.ObjectStore
	maxSize int64
}

func NewMediaService(store storage.ObjectStore) *MediaService {
	return &MediaService{
		store:   store,
		maxSize: model.MaxUploadSizeBytes,
	}
}

// Ingest checks type and size and stores the file as <uuid><ext>.
// The client-supplied name only contributes its extension.
func (s *MediaService) Ingest(ctx context.Context, body io.Reader, declaredType string, size int64, originalName string) (*model.UploadResult, error) {
	if size > s.maxSize {
		return nil, model.ErrFileTooLarge
	}
	if !model.IsImageType(declaredType) {
		return nil, model.ErrInvalidImageType
	}

	limitedReader := io.LimitReader(body, s.maxSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, model.ErrFileTooLarge
	}

	contentType := declaredType
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	ref := uuid.NewString() + safeExt(originalName)
	if err := s.store.Put(ctx, ref, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		log.Printf("[MediaService] Put FAILED: ref=%s err=%v", ref, err)
		return nil, model.StoreError("store upload", err)
	}

	log.Printf("[MediaService] Stored upload: ref=%s size=%d type=%s", ref, len(data), contentType)
	return &model.UploadResult{Ref: ref, URL: s.store.URL(ref)}, nil
}

// IngestMultipart is Ingest for a multipart form file.
func (s *MediaService) IngestMultipart(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	if file == nil || header == nil {
		return nil, model.ErrMissingFile
	}
	return s.Ingest(ctx, file, header.Header.Get("Content-Type"), header.Size, header.Filename)
}

// Discard deletes a stored file that never got referenced.
func (s *MediaService) Discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.store.Delete(ctx, ref); err != nil {
		log.Printf("[MediaService] Discard FAILED: ref=%s err=%v", ref, err)
		return
	}
	log.Printf("[MediaService] Discarded unreferenced upload: ref=%s", ref)
}

// URL resolves ref to its public location.
func (s *MediaService) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return s.store.URL(ref)
}

// safeExt returns the lower-cased extension of the base name, or "" when it
// is not a short alphanumeric suffix.
func safeExt(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	ext := strings.ToLower(path.Ext(base))
	if len(ext) < 2 || len(ext) > maxExtLength || ext == base {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
