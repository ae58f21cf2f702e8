package middleware

import (
	"log"
	"net"
	"net/http"

	"pinboard/internal/cache"
	"pinboard/internal/httputil"
)

// RateLimit limits requests per client IP for resource. When the limiter
// itself fails the request is let through.
func RateLimit(limiter cache.RateLimiter, resource string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if host, _, err := net.SplitHostPort(ip); err == nil {
				ip = host
			}

			allowed, err := limiter.Allow(r.Context(), resource, ip)
			if err != nil {
				log.Printf("[RateLimit] limiter error, allowing request: resource=%s ip=%s err=%v", resource, ip, err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				httputil.WriteTooManyRequests(w, "Too many attempts, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
