package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinboard/internal/model"
)

var postColumns = []string{"id", "user_id", "image_ref", "caption", "created_at"}

func TestPostRepository_Create(t *testing.T) {
	now := time.Now()
	caption := "hi"

	tests := []struct {
		name         string
		mockBehavior func(mock sqlmock.Sqlmock)
		wantErr      error
	}{
		{
			name: "inserts post and appends to owner in one transaction",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO posts`).
					WithArgs(int64(1), "a.jpg", sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows(postColumns).AddRow(10, 1, "a.jpg", caption, now))
				mock.ExpectExec(`UPDATE users SET post_ids = array_append`).
					WithArgs(int64(10), int64(1)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "unknown owner rolls back",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO posts`).
					WillReturnError(&pq.Error{Code: pgForeignKeyViolation})
				mock.ExpectRollback()
			},
			wantErr: model.ErrUserNotFound,
		},
		{
			name: "owner update failure rolls back the insert",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO posts`).
					WillReturnRows(sqlmock.NewRows(postColumns).AddRow(10, 1, "a.jpg", caption, now))
				mock.ExpectExec(`UPDATE users SET post_ids = array_append`).
					WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			wantErr: model.ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewPostRepository(db)
			tt.mockBehavior(mock)

			post, err := repo.Create(context.Background(), 1, "a.jpg", &caption)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, post)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(10), post.ID)
				assert.Equal(t, int64(1), post.UserID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostRepository_Delete(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name         string
		requesterID  int64
		mockBehavior func(mock sqlmock.Sqlmock)
		wantErr      error
	}{
		{
			name:        "owner deletes",
			requesterID: 1,
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FOR UPDATE`).
					WithArgs(int64(10)).
					WillReturnRows(sqlmock.NewRows(postColumns).AddRow(10, 1, "a.jpg", nil, now))
				mock.ExpectExec(`UPDATE users SET post_ids = array_remove`).
					WithArgs(int64(10), int64(1)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`DELETE FROM posts`).
					WithArgs(int64(10)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:        "other user is forbidden and nothing is written",
			requesterID: 2,
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FOR UPDATE`).
					WillReturnRows(sqlmock.NewRows(postColumns).AddRow(10, 1, "a.jpg", nil, now))
				mock.ExpectRollback()
			},
			wantErr: model.ErrNotPostOwner,
		},
		{
			name:        "missing post",
			requesterID: 1,
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FOR UPDATE`).WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			wantErr: model.ErrPostNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewPostRepository(db)
			tt.mockBehavior(mock)

			post, err := repo.Delete(context.Background(), 10, tt.requesterID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "a.jpg", post.ImageRef)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostRepository_ListFeed(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	now := time.Now()

	mock.ExpectQuery(`ORDER BY p.created_at ASC, p.id ASC`).
		WillReturnRows(sqlmock.NewRows(append(append([]string{}, postColumns...), "author_username", "author_fullname")).
			AddRow(1, 7, "a.jpg", "first", now, "alice", "Alice A").
			AddRow(2, 8, "b.jpg", nil, now, "bob", "Bob B"))

	feed, err := repo.ListFeed(context.Background())
	require.NoError(t, err)
	require.Len(t, feed, 2)

	assert.Equal(t, int64(1), feed[0].ID)
	assert.Equal(t, model.UserSummary{ID: 7, Username: "alice", Fullname: "Alice A"}, feed[0].Author)
	assert.Nil(t, feed[1].Caption)
	assert.Equal(t, "bob", feed[1].Author.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByIDs_PreservesOrder(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	now := time.Now()

	mock.ExpectQuery(`WHERE id = ANY\(\$1\)`).
		WillReturnRows(sqlmock.NewRows(postColumns).
			AddRow(1, 7, "a.jpg", nil, now).
			AddRow(3, 7, "c.jpg", nil, now))

	posts, err := repo.GetByIDs(context.Background(), []int64{3, 2, 1})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, int64(3), posts[0].ID)
	assert.Equal(t, int64(1), posts[1].ID)

	empty, err := repo.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}
