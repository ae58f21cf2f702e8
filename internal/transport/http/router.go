package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"pinboard/internal/cache"
	"pinboard/internal/handler"
	"pinboard/internal/httputil"
	authmw "pinboard/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler     *handler.AuthHandler
	UserHandler     *handler.UserHandler
	PostHandler     *handler.PostHandler
	BookmarkHandler *handler.BookmarkHandler

	Identity     authmw.IdentityResolver
	Flasher      *httputil.Flasher
	LoginLimiter cache.RateLimiter // nil disables login rate limiting

	RequestTimeout     time.Duration
	CORSAllowedOrigins []string

	// TrustProxy takes the client address from forwarding headers instead
	// of the TCP peer.
	TrustProxy bool

	// UploadDir is served under UploadPublicPath when set.
	UploadDir        string
	UploadPublicPath string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.UploadDir != "" {
		mountUploads(r, cfg.UploadPublicPath, cfg.UploadDir)
	}

	// Public routes - no authentication required
	r.Post("/register", cfg.AuthHandler.Register)
	r.Get("/login", cfg.AuthHandler.LoginPage)
	if cfg.LoginLimiter != nil {
		r.With(authmw.RateLimit(cfg.LoginLimiter, "login")).Post("/login", cfg.AuthHandler.Login)
	} else {
		r.Post("/login", cfg.AuthHandler.Login)
	}

	// Page-style routes redirect anonymous callers to /login
	r.Group(func(r chi.Router) {
		r.Use(authmw.PageAuth(cfg.Identity, cfg.Flasher))

		r.Get("/logout", cfg.AuthHandler.Logout)
		r.Post("/logout", cfg.AuthHandler.Logout)
		r.Get("/feed", cfg.PostHandler.Feed)
		r.Get("/profile", cfg.UserHandler.Profile)
		r.Post("/upload", cfg.PostHandler.Upload)
	})

	// Data-style routes answer 401
	r.Group(func(r chi.Router) {
		r.Use(authmw.APIAuth(cfg.Identity))

		r.Post("/upload-profile-pic", cfg.UserHandler.UploadProfilePicture)
		r.Post("/save-image", cfg.BookmarkHandler.Save)
		r.Post("/unsave-image", cfg.BookmarkHandler.Unsave)
		r.Get("/saved-images", cfg.BookmarkHandler.List)
		r.Post("/delete-post", cfg.PostHandler.Delete)
	})

	return r
}

// mountUploads serves single files from the flat upload directory. Directory
// listings and dotfiles are not served.
func mountUploads(r chi.Router, publicPath, dir string) {
	prefix := strings.TrimSuffix(publicPath, "/") + "/"
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))

	r.Get(prefix+"{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		if name == "" || strings.HasPrefix(name, ".") {
			http.NotFound(w, req)
			return
		}
		files.ServeHTTP(w, req)
	})
}
