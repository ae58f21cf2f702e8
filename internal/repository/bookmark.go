package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"pinboard/internal/model"
)

type bookmarkRepository struct {
	db *sqlx.DB
}

func NewBookmarkRepository(db *sqlx.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

// Save relies on UNIQUE(user_id, image_url): a duplicate affects no rows
// instead of failing, which makes the call idempotent under concurrency.
func (r *bookmarkRepository) Save(ctx context.Context, userID int64, imageURL, caption string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO saved_images (user_id, image_url, caption, saved_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, image_url) DO NOTHING
	`, userID, imageURL, caption)
	if err != nil {
		if pqCode(err) == pgForeignKeyViolation {
			return false, model.ErrUserNotFound
		}
		return false, model.StoreError("insert saved image", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, model.StoreError("get rows affected", err)
	}
	return rows == 1, nil
}

// List returns the user's saved images in save order.
func (r *bookmarkRepository) List(ctx context.Context, userID int64) ([]model.SavedImage, error) {
	var images []model.SavedImage
	err := r.db.SelectContext(ctx, &images, `
		SELECT id, user_id, image_url, caption, saved_at
		FROM saved_images
		WHERE user_id = $1
		ORDER BY saved_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, model.StoreError("list saved images", err)
	}
	if images == nil {
		images = []model.SavedImage{}
	}
	return images, nil
}

// DeleteAt resolves the position and deletes it in a single statement, so an
// out-of-range index never mutates anything.
func (r *bookmarkRepository) DeleteAt(ctx context.Context, userID int64, index int) error {
	if index < 0 {
		return model.ErrInvalidImageIndex
	}

	result, err := r.db.ExecContext(ctx, `
		DELETE FROM saved_images
		WHERE id = (
			SELECT id FROM saved_images
			WHERE user_id = $1
			ORDER BY saved_at ASC, id ASC
			OFFSET $2 LIMIT 1
		)
	`, userID, index)
	if err != nil {
		return model.StoreError("delete saved image at index", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return model.StoreError("get rows affected", err)
	}
	if rows == 0 {
		return model.ErrInvalidImageIndex
	}
	return nil
}

// DeleteByURL removes the entry keyed by its image URL.
func (r *bookmarkRepository) DeleteByURL(ctx context.Context, userID int64, imageURL string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_images WHERE user_id = $1 AND image_url = $2`,
		userID, imageURL)
	if err != nil {
		return model.StoreError("delete saved image by url", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return model.StoreError("get rows affected", err)
	}
	if rows == 0 {
		return model.ErrSavedImageNotFound
	}
	return nil
}
