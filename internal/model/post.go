package model

import (
	"fmt"
	"time"
)

// Post is an image-bearing content record owned by one user.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ImageRef  string    `db:"image_ref" json:"image"`
	Caption   *string   `db:"caption" json:"caption"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Public location of ImageRef, resolved by the service layer.
	ImageURL string `db:"-" json:"image_url"`
}

// FeedPost is a post enriched with its owner's summary.
type FeedPost struct {
	Post
	Author UserSummary `json:"author"`
}

// FeedResponse lists every post in feed order.
type FeedResponse struct {
	Posts []FeedPost `json:"posts"`
}

const MaxPostCaptionLength = 2200

// Post errors
var (
	ErrPostNotFound   = fmt.Errorf("post %w", ErrNotFound)
	ErrNotPostOwner   = fmt.Errorf("%w: not the owner of this post", ErrForbidden)
	ErrCaptionTooLong = NewValidationError("caption", "caption too long")
)
