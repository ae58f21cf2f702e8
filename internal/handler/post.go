package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"pinboard/internal/httputil"
	"pinboard/internal/model"
	"pinboard/internal/service"
	"pinboard/internal/transport/http/middleware"
)

// PostHandler serves post creation, the feed and post deletion.
type PostHandler struct {
	postService  *service.PostService
	mediaService *service.MediaService
}

func NewPostHandler(postService *service.PostService, mediaService *service.MediaService) *PostHandler {
	return &PostHandler{
		postService:  postService,
		mediaService: mediaService,
	}
}

// Upload handles POST /upload (multipart "file" and "filecaption").
func (h *PostHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	file, header, cleanup, err := parseUpload(w, r, "file")
	defer cleanup()
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	upload, err := h.mediaService.IngestMultipart(r.Context(), file, header)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	if _, err := h.postService.Create(r.Context(), userID, upload.Ref, r.FormValue("filecaption")); err != nil {
		discardUpload(r, h.mediaService, upload.Ref)
		httputil.WriteDomainError(w, err)
		return
	}

	httputil.SeeOther(w, r, profilePath+"?upload=success")
}

// Feed handles GET /feed. A store failure yields an empty feed.
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListFeed(r.Context())
	if err != nil {
		log.Printf("[PostHandler] Feed failed, serving empty feed: %v", err)
		posts = []model.FeedPost{}
	}
	httputil.WriteSuccess(w, http.StatusOK, "", model.FeedResponse{Posts: posts})
}

// Delete handles POST /delete-post ("postId").
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	postID, err := strconv.ParseInt(strings.TrimSpace(values.Get("postId")), 10, 64)
	if err != nil || postID <= 0 {
		httputil.WriteDomainError(w, model.NewValidationError("postId", "postId must be a positive integer"))
		return
	}

	if err := h.postService.Delete(r.Context(), postID, userID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Post deleted", nil)
}
