package httputil

import (
	"errors"
	"log"
	"net/http"

	"pinboard/internal/model"
)

// Classify maps an error category to a status, a code and a client-safe message.
// Store failures and unknown errors never leak their cause.
func Classify(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, ErrCodeValidation, err.Error()
	case errors.Is(err, model.ErrInvalidUpload):
		return http.StatusBadRequest, uploadCode(err), err.Error()
	case errors.Is(err, model.ErrInvalidIndex):
		return http.StatusBadRequest, ErrCodeInvalidIndex, "Invalid image index"
	case errors.Is(err, model.ErrDuplicateIdentity):
		return http.StatusConflict, ErrCodeConflict, err.Error()
	case errors.Is(err, model.ErrAuthFailure):
		return http.StatusUnauthorized, ErrCodeUnauthorized, model.ErrAuthFailure.Error()
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required"
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, ErrCodeForbidden, err.Error()
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound, err.Error()
	default:
		log.Printf("[HTTP] internal error: %v", err)
		return http.StatusInternalServerError, ErrCodeInternal, "Internal server error"
	}
}

func uploadCode(err error) string {
	switch {
	case errors.Is(err, model.ErrFileTooLarge):
		return model.CodeFileTooLarge
	case errors.Is(err, model.ErrInvalidImageType):
		return model.CodeInvalidImageType
	case errors.Is(err, model.ErrMissingFile):
		return model.CodeMissingFile
	}
	return ErrCodeInvalidUpload
}
