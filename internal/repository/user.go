package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"pinboard/internal/model"
)

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, fullname, password_hashed, profile_picture_ref, post_ids, created_at, updated_at`

// Create inserts a new user. Unique violations on username or email surface
// as duplicate identity errors so concurrent registrations stay consistent.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, email, fullname, password_hashed, profile_picture_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, post_ids, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		u.Username,
		u.Email,
		u.Fullname,
		u.PasswordHashed,
		u.ProfilePictureRef,
	).Scan(&u.ID, &u.PostIDs, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pqCode(err) == pgUniqueViolation {
			if strings.Contains(pqConstraint(err), "email") {
				return model.ErrEmailExists
			}
			return model.ErrUsernameExists
		}
		return model.StoreError("insert user", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, model.StoreError("get user by id", err)
	}

	return &u, nil
}

// GetByUsername retrieves a user by their username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, model.StoreError("get user by username", err)
	}

	return &u, nil
}

// ExistsByUsername checks if a username is already taken
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
	if err != nil {
		return false, model.StoreError("check username existence", err)
	}
	return exists, nil
}

// ExistsByEmail checks if a normalized email is already registered
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err != nil {
		return false, model.StoreError("check email existence", err)
	}
	return exists, nil
}

// UpdateProfilePicture swaps the reference in one statement. The old value is
// read under a row lock so two concurrent uploads each see a distinct predecessor.
func (r *userRepository) UpdateProfilePicture(ctx context.Context, userID int64, ref string) (*string, error) {
	query := `
		UPDATE users u
		SET profile_picture_ref = $2, updated_at = NOW()
		FROM (SELECT id, profile_picture_ref FROM users WHERE id = $1 FOR UPDATE) old
		WHERE u.id = old.id
		RETURNING old.profile_picture_ref
	`

	var previous sql.NullString
	err := r.db.QueryRowxContext(ctx, query, userID, ref).Scan(&previous)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, model.StoreError("update profile picture", err)
	}

	if !previous.Valid {
		return nil, nil
	}
	return &previous.String, nil
}
