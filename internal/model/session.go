package model

import (
	"fmt"
	"time"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_id"

// Session is the server-held record of a completed login.
type Session struct {
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ErrSessionNotFound is returned for unknown, expired or revoked tokens.
var ErrSessionNotFound = fmt.Errorf("session not found: %w", ErrUnauthorized)
