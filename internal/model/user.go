package model

import (
	"fmt"
	"time"

	"github.com/lib/pq"
)

// User represents a registered identity.
type User struct {
	ID                int64         `db:"id" json:"id"`
	Username          string        `db:"username" json:"username"`
	Email             string        `db:"email" json:"email"`
	Fullname          string        `db:"fullname" json:"fullname"`
	PasswordHashed    string        `db:"password_hashed" json:"-"` // "-" hides from JSON output
	ProfilePictureRef *string       `db:"profile_picture_ref" json:"profile_picture_ref"`
	PostIDs           pq.Int64Array `db:"post_ids" json:"posts"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updated_at"`

	// Resolved by the handler, not stored.
	ProfilePictureURL *string `db:"-" json:"profile_picture_url,omitempty"`
}

// UserSummary is the read-only owner view attached to feed entries.
type UserSummary struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Fullname string `db:"fullname" json:"fullname"`
}

// ProfileResponse is a user together with the resolved posts and bookmarks it owns.
type ProfileResponse struct {
	User        *User        `json:"user"`
	Posts       []Post       `json:"posts"`
	SavedImages []SavedImage `json:"saved_images"`
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	Password string `json:"password"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = fmt.Errorf("%w: username already taken", ErrDuplicateIdentity)

	// ErrEmailExists is returned when the normalized email is already registered
	ErrEmailExists = fmt.Errorf("%w: email already registered", ErrDuplicateIdentity)
)
