package repository

import (
	"context"

	"pinboard/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// UpdateProfilePicture replaces the stored reference and returns the previous one.
	UpdateProfilePicture(ctx context.Context, userID int64, ref string) (previous *string, err error)
}

type PostRepository interface {
	// Create inserts the post and appends its id to the owner's post list atomically.
	Create(ctx context.Context, userID int64, imageRef string, caption *string) (*model.Post, error)
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	GetByIDs(ctx context.Context, postIDs []int64) ([]model.Post, error)
	// ListFeed returns every post with its owner, oldest first.
	ListFeed(ctx context.Context) ([]model.FeedPost, error)
	// Delete removes the post and its owner-list reference after checking ownership.
	// It returns the deleted post.
	Delete(ctx context.Context, postID, userID int64) (*model.Post, error)
}

type BookmarkRepository interface {
	// Save appends an entry unless imageURL is already saved by the user.
	// created is false when the entry already existed.
	Save(ctx context.Context, userID int64, imageURL, caption string) (created bool, err error)
	List(ctx context.Context, userID int64) ([]model.SavedImage, error)
	// DeleteAt removes the entry at position index of List's order.
	DeleteAt(ctx context.Context, userID int64, index int) error
	DeleteByURL(ctx context.Context, userID int64, imageURL string) error
}
