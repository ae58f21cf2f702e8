package handler

import (
	"errors"
	"log"
	"net/http"

	"pinboard/internal/config"
	"pinboard/internal/httputil"
	"pinboard/internal/model"
	"pinboard/internal/service"
	"pinboard/internal/transport/http/middleware"
)

const (
	profilePath = "/profile"
	homePath    = "/"
)

// AuthHandler groups auth-related HTTP endpoints and their dependencies.
type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
	flasher     *httputil.Flasher
	config      *config.Config
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(userService *service.UserService, authService *service.AuthService, flasher *httputil.Flasher, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		flasher:     flasher,
		config:      cfg,
	}
}

// Register handles POST /register.
// Success logs the new user in and redirects to the profile page.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	values, err := httputil.ReadValues(w, r)
	if err != nil {
		h.flasher.Redirect(w, r, middleware.LoginPath, "Invalid registration form")
		return
	}

	req := model.RegisterRequest{
		Username: values.Get("username"),
		Email:    values.Get("email"),
		Fullname: values.Get("fullname"),
		Password: values.Get("password"),
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.flasher.Redirect(w, r, middleware.LoginPath, flashMessage(err))
		return
	}

	token, err := h.authService.StartSession(r.Context(), user.ID)
	if err != nil {
		log.Printf("[AuthHandler] Register: session for user=%d failed: %v", user.ID, err)
		h.flasher.Redirect(w, r, middleware.LoginPath, "Account created, please log in")
		return
	}

	setSessionCookie(w, h.config, token)
	httputil.SeeOther(w, r, profilePath)
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	values, err := httputil.ReadValues(w, r)
	if err != nil {
		h.flasher.Redirect(w, r, middleware.LoginPath, "Invalid login form")
		return
	}

	user, err := h.userService.Login(r.Context(), &model.LoginRequest{
		Username: values.Get("username"),
		Password: values.Get("password"),
	})
	if err != nil {
		h.flasher.Redirect(w, r, middleware.LoginPath, flashMessage(err))
		return
	}

	token, err := h.authService.StartSession(r.Context(), user.ID)
	if err != nil {
		log.Printf("[AuthHandler] Login: session for user=%d failed: %v", user.ID, err)
		h.flasher.Redirect(w, r, middleware.LoginPath, flashMessage(err))
		return
	}

	setSessionCookie(w, h.config, token)
	httputil.SeeOther(w, r, profilePath)
}

// LoginPage handles GET /login and surfaces the pending flash message.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	msg := h.flasher.Pop(w, r)
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]string{"error": msg})
}

// Logout handles GET|POST /logout. It always clears the cookie, even when
// the session store cannot be reached.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetSessionTokenFromContext(r.Context())
	if err := h.authService.EndSession(r.Context(), token); err != nil {
		log.Printf("[AuthHandler] Logout: end session failed: %v", err)
	}

	clearSessionCookie(w, h.config)
	httputil.SeeOther(w, r, homePath)
}

// flashMessage is the user-facing text for a page-style failure.
func flashMessage(err error) string {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, model.ErrUsernameExists):
		return "Username already exists"
	case errors.Is(err, model.ErrEmailExists):
		return "Email already registered"
	case errors.Is(err, model.ErrAuthFailure):
		return "Invalid username or password"
	default:
		log.Printf("[AuthHandler] internal error: %v", err)
		return "Something went wrong, please try again"
	}
}
