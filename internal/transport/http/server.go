package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pinboard/internal/cache"
	"pinboard/internal/config"
	"pinboard/internal/database"
	"pinboard/internal/handler"
	"pinboard/internal/httputil"
	"pinboard/internal/queue"
	"pinboard/internal/redis"
	"pinboard/internal/repository"
	"pinboard/internal/service"
	"pinboard/internal/storage"
	"pinboard/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// Dependencies are the stores the HTTP layer is built on.
type Dependencies struct {
	Users     repository.UserRepository
	Posts     repository.PostRepository
	Bookmarks repository.BookmarkRepository
	Sessions  cache.SessionStore
	Limiter   cache.RateLimiter // optional
	Publisher queue.Publisher   // optional
	Objects   storage.ObjectStore

	// UploadDir is served as static files when set (disk backend).
	UploadDir string
}

// NewHandler wires services and handlers on top of deps.
func NewHandler(cfg *config.Config, deps Dependencies) stdhttp.Handler {
	flasher := httputil.NewFlasher(cfg.SessionSecret, cfg.CookieSecure)

	mediaService := service.NewMediaService(deps.Objects)
	userService := service.NewUserService(deps.Users, deps.Publisher)
	authService := service.NewAuthService(deps.Sessions, cfg)
	postService := service.NewPostService(deps.Posts, deps.Users, deps.Bookmarks, mediaService, deps.Publisher)
	bookmarkService := service.NewBookmarkService(deps.Bookmarks)

	return NewRouter(RouterConfig{
		AuthHandler:     handler.NewAuthHandler(userService, authService, flasher, cfg),
		UserHandler:     handler.NewUserHandler(userService, postService, mediaService, flasher),
		PostHandler:     handler.NewPostHandler(postService, mediaService),
		BookmarkHandler: handler.NewBookmarkHandler(bookmarkService),

		Identity:     authService,
		Flasher:      flasher,
		LoginLimiter: deps.Limiter,

		RequestTimeout:     cfg.RequestTimeout,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		TrustProxy:         cfg.TrustProxy,

		UploadDir:        deps.UploadDir,
		UploadPublicPath: cfg.UploadPublicPath,
	})
}

func newObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, string, error) {
	if cfg.StorageBackend == config.StorageR2 {
		store, err := storage.NewR2Store(ctx, cfg)
		return store, "", err
	}
	store, err := storage.NewDiskStore(cfg.UploadDir, cfg.UploadPublicPath)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}

func Run() error {
	ctx := context.Background()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. Connect to Redis
	rdb, err := redis.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer rdb.Close()

	// 4. Object storage
	objects, uploadDir, err := newObjectStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}

	// 5. Media reclamation workers
	manager := worker.NewManager(
		queue.NewConsumer(rdb.Client),
		worker.NewHandler(objects),
		worker.ManagerConfig{WorkerCount: cfg.WorkerCount},
	)
	if err := manager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	defer manager.Stop()

	// 6. Setup Server
	h := NewHandler(cfg, Dependencies{
		Users:     repository.NewUserRepository(db),
		Posts:     repository.NewPostRepository(db),
		Bookmarks: repository.NewBookmarkRepository(db),
		Sessions:  cache.NewSessionStore(rdb.Client),
		Limiter:   cache.NewRateLimiter(rdb.Client, cfg.LoginRateLimit, time.Minute),
		Publisher: queue.NewPublisher(rdb.Client),
		Objects:   objects,
		UploadDir: uploadDir,
	})

	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s (storage=%s)", cfg.ServerPort, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-stop:
		log.Printf("Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
