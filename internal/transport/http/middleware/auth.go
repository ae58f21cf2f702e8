package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"pinboard/internal/httputil"
	"pinboard/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"

	// SessionTokenKey is the context key for the raw session token
	SessionTokenKey contextKey = "session_token"
)

// LoginPath is where page-style routes send anonymous callers.
const LoginPath = "/login"

// IdentityResolver resolves a session token to a user id.
// Satisfied by service.AuthService.
type IdentityResolver interface {
	CurrentIdentity(ctx context.Context, token string) (int64, error)
}

// SessionToken returns the session token from the session cookie, falling
// back to an "Authorization: Bearer" header.
func SessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(model.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}

// PageAuth guards page-style routes: anonymous callers are redirected to the
// login page with a flash message.
func PageAuth(resolver IdentityResolver, flasher *httputil.Flasher) func(http.Handler) http.Handler {
	return sessionGate(resolver, func(w http.ResponseWriter, r *http.Request, err error) {
		if errors.Is(err, model.ErrUnauthorized) {
			flasher.Redirect(w, r, LoginPath, "Please log in to continue")
			return
		}
		httputil.WriteDomainError(w, err)
	})
}

// APIAuth guards data-style routes: anonymous callers get a 401 envelope.
func APIAuth(resolver IdentityResolver) func(http.Handler) http.Handler {
	return sessionGate(resolver, func(w http.ResponseWriter, r *http.Request, err error) {
		if errors.Is(err, model.ErrUnauthorized) {
			httputil.WriteUnauthorized(w, "Authentication required")
			return
		}
		httputil.WriteDomainError(w, err)
	})
}

func sessionGate(resolver IdentityResolver, reject func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)

			userID, err := resolver.CurrentIdentity(r.Context(), token)
			if err != nil {
				if !errors.Is(err, model.ErrUnauthorized) {
					log.Printf("[SessionGate] resolve session failed: path=%s err=%v", r.URL.Path, err)
				}
				reject(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, SessionTokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the user ID from the request context
// Returns the user ID and true if found, or 0 and false if not found
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetSessionTokenFromContext returns the token the gate accepted.
func GetSessionTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(SessionTokenKey).(string)
	return token
}
