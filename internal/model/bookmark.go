package model

import (
	"fmt"
	"time"
)

// SavedImage is one bookmark entry in a user's saved list.
// ImageURL is unique within a single user's list.
type SavedImage struct {
	ID       int64     `db:"id" json:"id"`
	UserID   int64     `db:"user_id" json:"-"`
	ImageURL string    `db:"image_url" json:"imageUrl"`
	Caption  string    `db:"caption" json:"caption"`
	SavedAt  time.Time `db:"saved_at" json:"savedAt"`
}

// SaveImageResult tells the caller whether a new entry was appended.
type SaveImageResult struct {
	Saved        bool `json:"saved"`
	AlreadySaved bool `json:"already_saved"`
}

var (
	ErrInvalidImageIndex  = fmt.Errorf("%w: invalid image index", ErrInvalidIndex)
	ErrSavedImageNotFound = fmt.Errorf("saved image %w", ErrNotFound)
)
