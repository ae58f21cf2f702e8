package handler

import (
	"net/http"
	"strconv"
	"strings"

	"pinboard/internal/httputil"
	"pinboard/internal/model"
	"pinboard/internal/service"
	"pinboard/internal/transport/http/middleware"
)

// BookmarkHandler serves the saved-image endpoints.
type BookmarkHandler struct {
	bookmarkService *service.BookmarkService
}

func NewBookmarkHandler(bookmarkService *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarkService: bookmarkService}
}

// Save handles POST /save-image ("imageUrl", "caption").
func (h *BookmarkHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	values, err := httputil.ReadValues(w, r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	result, err := h.bookmarkService.SaveImage(r.Context(), userID, values.Get("imageUrl"), values.Get("caption"))
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if result.AlreadySaved {
		httputil.WriteJSON(w, http.StatusOK, httputil.Result{Success: false, Message: "Image already saved"})
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Image saved successfully", nil)
}

// Unsave handles POST /unsave-image. "imageIndex" removes by position,
// otherwise "imageUrl" removes by key.
func (h *BookmarkHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	values, err := httputil.ReadValues(w, r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if raw := strings.TrimSpace(values.Get("imageIndex")); raw != "" {
		index, convErr := strconv.Atoi(raw)
		if convErr != nil {
			httputil.WriteDomainError(w, model.ErrInvalidImageIndex)
			return
		}
		err = h.bookmarkService.UnsaveImage(r.Context(), userID, index)
	} else {
		err = h.bookmarkService.UnsaveImageByURL(r.Context(), userID, values.Get("imageUrl"))
	}
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Image removed", nil)
}

// List handles GET /saved-images.
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	images, err := h.bookmarkService.ListSaved(r.Context(), userID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{"savedImages": images})
}
