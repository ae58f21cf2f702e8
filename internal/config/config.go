package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends for uploaded files.
const (
	StorageDisk = "disk"
	StorageR2   = "r2"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort     string
	RequestTimeout time.Duration

	RedisURL string

	SessionMaxAge int
	SessionSecret string
	CookieSecure  bool

	LoginRateLimit     int
	CORSAllowedOrigins []string

	// TrustProxy honours X-Forwarded-For / X-Real-IP as the client address.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool

	StorageBackend   string
	UploadDir        string
	UploadPublicPath string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string

	WorkerCount int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	sessionMaxAge, err := strconv.Atoi(os.Getenv("SESSION_MAX_AGE"))
	if err != nil || sessionMaxAge <= 0 {
		sessionMaxAge = 86400
	}

	requestTimeout, err := strconv.Atoi(os.Getenv("REQUEST_TIMEOUT"))
	if err != nil || requestTimeout <= 0 {
		requestTimeout = 15
	}

	loginRateLimit, err := strconv.Atoi(os.Getenv("LOGIN_RATE_LIMIT"))
	if err != nil || loginRateLimit <= 0 {
		loginRateLimit = 10
	}

	workerCount, err := strconv.Atoi(os.Getenv("WORKER_COUNT"))
	if err != nil || workerCount <= 0 {
		workerCount = 1
	}

	cookieSecure, _ := strconv.ParseBool(os.Getenv("COOKIE_SECURE"))
	trustProxy, _ := strconv.ParseBool(os.Getenv("TRUST_PROXY"))

	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		ServerPort:     getEnv("SERVER_PORT", "8080"),
		RequestTimeout: time.Duration(requestTimeout) * time.Second,

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		SessionMaxAge: sessionMaxAge,
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  cookieSecure,

		LoginRateLimit:     loginRateLimit,
		CORSAllowedOrigins: origins,
		TrustProxy:         trustProxy,

		StorageBackend:   strings.ToLower(getEnv("STORAGE_BACKEND", StorageDisk)),
		UploadDir:        getEnv("UPLOAD_DIR", "./public/images/uploads"),
		UploadPublicPath: getEnv("UPLOAD_PUBLIC_PATH", "/images/uploads"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),

		WorkerCount: workerCount,
	}, nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}
	if c.DBHost == "" || c.DBName == "" {
		errs = append(errs, errors.New("DB_HOST and DB_NAME are required"))
	}
	switch c.StorageBackend {
	case StorageDisk:
		if c.UploadDir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR is required for disk storage"))
		}
	case StorageR2:
		if c.R2AccountID == "" || c.R2AccessKeyID == "" || c.R2SecretAccessKey == "" || c.R2BucketName == "" || c.R2PublicURL == "" {
			errs = append(errs, errors.New("missing Cloudflare R2 configuration"))
		}
	default:
		errs = append(errs, errors.New("STORAGE_BACKEND must be \"disk\" or \"r2\""))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
