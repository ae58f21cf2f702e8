package model

import (
	"fmt"
	"strings"
)

const (
	MaxUploadSizeBytes = 5 * 1024 * 1024 // 5MB limit per upload
	UploadFolder       = "uploads"
	UploadCacheControl = "public, max-age=31536000" // 1 year

	// ImageTypePrefix is the MIME category every upload must declare.
	ImageTypePrefix = "image/"
)

// Error codes for HTTP responses
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidImageType = "INVALID_IMAGE_TYPE"
	CodeMissingFile      = "MISSING_FILE"
)

// Domain errors for media operations
var (
	ErrFileTooLarge     = fmt.Errorf("%w: file size too large, maximum size is 5MB", ErrInvalidUpload)
	ErrInvalidImageType = fmt.Errorf("%w: only image files are allowed", ErrInvalidUpload)
	ErrMissingFile      = fmt.Errorf("%w: no file uploaded", ErrInvalidUpload)
)

// UploadResult represents the stored object.
// Ref is the system-assigned name; URL is where clients can fetch it.
type UploadResult struct {
	Ref string `json:"filename"`
	URL string `json:"url"`
}

// IsImageType reports whether contentType belongs to the image category.
// Parameters such as "; charset=" are ignored.
func IsImageType(contentType string) bool {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	return strings.HasPrefix(contentType, ImageTypePrefix) && len(contentType) > len(ImageTypePrefix)
}
