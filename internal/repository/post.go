package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pinboard/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a post and appends its id to the owner's post_ids in one
// transaction, so a post is never left unreferenced by its owner.
func (r *postRepository) Create(ctx context.Context, userID int64, imageRef string, caption *string) (*model.Post, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, model.StoreError("begin transaction", err)
	}
	defer tx.Rollback()

	var post model.Post
	query := `
		INSERT INTO posts (user_id, image_ref, caption)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, image_ref, caption, created_at
	`
	err = tx.GetContext(ctx, &post, query, userID, imageRef, caption)
	if err != nil {
		if pqCode(err) == pgForeignKeyViolation {
			return nil, model.ErrUserNotFound
		}
		return nil, model.StoreError("insert post", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE users SET post_ids = array_append(post_ids, $1), updated_at = NOW() WHERE id = $2`,
		post.ID, userID)
	if err != nil {
		return nil, model.StoreError("append post to owner", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, model.StoreError("get rows affected", err)
	}
	if rows == 0 {
		return nil, model.ErrUserNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, model.StoreError("commit transaction", err)
	}

	return &post, nil
}

// GetByID retrieves a single post.
func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := `
		SELECT id, user_id, image_ref, caption, created_at
		FROM posts
		WHERE id = $1
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, model.StoreError("get post", err)
	}
	return &post, nil
}

// GetByIDs retrieves multiple posts, preserving the order of postIDs.
// Ids without a matching row are skipped.
func (r *postRepository) GetByIDs(ctx context.Context, postIDs []int64) ([]model.Post, error) {
	if len(postIDs) == 0 {
		return []model.Post{}, nil
	}

	query := `
		SELECT id, user_id, image_ref, caption, created_at
		FROM posts
		WHERE id = ANY($1)
	`
	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, query, pq.Array(postIDs))
	if err != nil {
		return nil, model.StoreError("get posts by ids", err)
	}

	postsMap := make(map[int64]model.Post, len(posts))
	for _, p := range posts {
		postsMap[p.ID] = p
	}
	ordered := make([]model.Post, 0, len(postIDs))
	for _, id := range postIDs {
		if p, ok := postsMap[id]; ok {
			ordered = append(ordered, p)
		}
	}

	return ordered, nil
}

// feedRow is the flat shape of the feed join.
type feedRow struct {
	model.Post
	AuthorUsername string `db:"author_username"`
	AuthorFullname string `db:"author_fullname"`
}

// ListFeed returns all posts joined with their owner, ordered by creation
// time with id as the tie breaker.
func (r *postRepository) ListFeed(ctx context.Context) ([]model.FeedPost, error) {
	query := `
		SELECT p.id, p.user_id, p.image_ref, p.caption, p.created_at,
		       u.username AS author_username, u.fullname AS author_fullname
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at ASC, p.id ASC
	`
	var rows []feedRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, model.StoreError("list feed", err)
	}

	feed := make([]model.FeedPost, len(rows))
	for i, row := range rows {
		feed[i] = model.FeedPost{
			Post: row.Post,
			Author: model.UserSummary{
				ID:       row.UserID,
				Username: row.AuthorUsername,
				Fullname: row.AuthorFullname,
			},
		}
	}
	return feed, nil
}

// Delete checks ownership under a row lock, drops the id from the owner's
// post_ids and deletes the row. Both writes commit together.
func (r *postRepository) Delete(ctx context.Context, postID, userID int64) (*model.Post, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, model.StoreError("begin transaction", err)
	}
	defer tx.Rollback()

	var post model.Post
	err = tx.GetContext(ctx, &post, `
		SELECT id, user_id, image_ref, caption, created_at
		FROM posts
		WHERE id = $1
		FOR UPDATE
	`, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, model.StoreError("lock post", err)
	}
	if post.UserID != userID {
		return nil, model.ErrNotPostOwner
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET post_ids = array_remove(post_ids, $1), updated_at = NOW() WHERE id = $2`,
		postID, userID)
	if err != nil {
		return nil, model.StoreError("remove post from owner", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID); err != nil {
		return nil, model.StoreError("delete post", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, model.StoreError("commit transaction", err)
	}

	return &post, nil
}
