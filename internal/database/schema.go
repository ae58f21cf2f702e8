package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// schema is applied on every start; each statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                  BIGSERIAL PRIMARY KEY,
		username            TEXT NOT NULL UNIQUE,
		email               TEXT NOT NULL UNIQUE,
		fullname            TEXT NOT NULL,
		password_hashed     TEXT NOT NULL,
		profile_picture_ref TEXT,
		post_ids            BIGINT[] NOT NULL DEFAULT '{}',
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id),
		image_ref  TEXT NOT NULL,
		caption    TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_created ON posts (created_at, id)`,
	`CREATE TABLE IF NOT EXISTS saved_images (
		id        BIGSERIAL PRIMARY KEY,
		user_id   BIGINT NOT NULL REFERENCES users(id),
		image_url TEXT NOT NULL,
		caption   TEXT NOT NULL DEFAULT '',
		saved_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, image_url)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_saved_images_order ON saved_images (user_id, saved_at, id)`,
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	log.Printf("Schema ready (%d statements)", len(schema))
	return nil
}
