package handler

import (
	"errors"
	"net/http"

	"pinboard/internal/httputil"
	"pinboard/internal/model"
	"pinboard/internal/service"
	"pinboard/internal/transport/http/middleware"
)

// UserHandler serves the profile page and profile picture uploads.
type UserHandler struct {
	userService  *service.UserService
	postService  *service.PostService
	mediaService *service.MediaService
	flasher      *httputil.Flasher
}

func NewUserHandler(userService *service.UserService, postService *service.PostService, mediaService *service.MediaService, flasher *httputil.Flasher) *UserHandler {
	return &UserHandler{
		userService:  userService,
		postService:  postService,
		mediaService: mediaService,
		flasher:      flasher,
	}
}

// profilePictureResponse is the body of a successful profile picture upload.
type profilePictureResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Profile handles GET /profile.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.postService.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			h.flasher.Redirect(w, r, middleware.LoginPath, "Please log in to continue")
			return
		}
		httputil.WriteDomainError(w, err)
		return
	}

	message := ""
	if r.URL.Query().Get("upload") == "success" {
		message = "Upload successful"
	}
	httputil.WriteSuccess(w, http.StatusOK, message, profile)
}

// UploadProfilePicture handles POST /upload-profile-pic (multipart "profilePic").
func (h *UserHandler) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	file, header, cleanup, err := parseUpload(w, r, "profilePic")
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

	if err := h.userService.UpdateProfilePicture(r.Context(), userID, upload.Ref); err != nil {
		discardUpload(r, h.mediaService, upload.Ref)
		httputil.WriteDomainError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profilePictureResponse{
		Success:  true,
		Filename: upload.Ref,
		URL:      upload.URL,
	})
}
