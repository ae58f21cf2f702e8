package service

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"pinboard/internal/model"
	"pinboard/internal/queue"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Services depend on repository INTERFACES, so each test swaps in a mock whose
// behavior is set per test through function fields.

type mockUserRepository struct {
	createFn               func(ctx context.Context, user *model.User) error
	getByIDFn              func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn        func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn     func(ctx context.Context, username string) (bool, error)
	existsByEmailFn        func(ctx context.Context, email string) (bool, error)
	updateProfilePictureFn func(ctx context.Context, userID int64, ref string) (*string, error)

	// Track calls for assertions
	createCalls []createCall
}

type createCall struct {
	User *model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, createCall{User: user})
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) UpdateProfilePicture(ctx context.Context, userID int64, ref string) (*string, error) {
	if m.updateProfilePictureFn != nil {
		return m.updateProfilePictureFn(ctx, userID, ref)
	}
	return nil, nil
}

type mockPostRepository struct {
	createFn   func(ctx context.Context, userID int64, imageRef string, caption *string) (*model.Post, error)
	getByIDFn  func(ctx context.Context, postID int64) (*model.Post, error)
	getByIDsFn func(ctx context.Context, postIDs []int64) ([]model.Post, error)
	listFeedFn func(ctx context.Context) ([]model.FeedPost, error)
	deleteFn   func(ctx context.Context, postID, userID int64) (*model.Post, error)
}

func (m *mockPostRepository) Create(ctx context.Context, userID int64, imageRef string, caption *string) (*model.Post, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, imageRef, caption)
	}
	return &model.Post{ID: 1, UserID: userID, ImageRef: imageRef, Caption: caption, CreatedAt: time.Now()}, nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, postID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) GetByIDs(ctx context.Context, postIDs []int64) ([]model.Post, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, postIDs)
	}
	return []model.Post{}, nil
}

func (m *mockPostRepository) ListFeed(ctx context.Context) ([]model.FeedPost, error) {
	if m.listFeedFn != nil {
		return m.listFeedFn(ctx)
	}
	return []model.FeedPost{}, nil
}

func (m *mockPostRepository) Delete(ctx context.Context, postID, userID int64) (*model.Post, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, postID, userID)
	}
	return nil, model.ErrPostNotFound
}

type mockBookmarkRepository struct {
	saveFn        func(ctx context.Context, userID int64, imageURL, caption string) (bool, error)
	listFn        func(ctx context.Context, userID int64) ([]model.SavedImage, error)
	deleteAtFn    func(ctx context.Context, userID int64, index int) error
	deleteByURLFn func(ctx context.Context, userID int64, imageURL string) error
}

func (m *mockBookmarkRepository) Save(ctx context.Context, userID int64, imageURL, caption string) (bool, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, userID, imageURL, caption)
	}
	return true, nil
}

func (m *mockBookmarkRepository) List(ctx context.Context, userID int64) ([]model.SavedImage, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return []model.SavedImage{}, nil
}

func (m *mockBookmarkRepository) DeleteAt(ctx context.Context, userID int64, index int) error {
	if m.deleteAtFn != nil {
		return m.deleteAtFn(ctx, userID, index)
	}
	return nil
}

func (m *mockBookmarkRepository) DeleteByURL(ctx context.Context, userID int64, imageURL string) error {
	if m.deleteByURLFn != nil {
		return m.deleteByURLFn(ctx, userID, imageURL)
	}
	return nil
}

// =============================================================================
// MOCK INFRASTRUCTURE
// =============================================================================

type mockPublisher struct {
	err    error
	events []queue.MediaEvent
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.MediaEvent) (string, error) {
	m.events = append(m.events, event)
	if m.err != nil {
		return "", m.err
	}
	return "1-0", nil
}

type mockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]model.Session
	getErr   error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]model.Session)}
}

func (m *mockSessionStore) Create(ctx context.Context, tokenHash string, session model.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[tokenHash] = session
	return nil
}

func (m *mockSessionStore) Get(ctx context.Context, tokenHash string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.sessions[tokenHash]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return &s, nil
}

func (m *mockSessionStore) Delete(ctx context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tokenHash)
	return nil
}

// memStore is an in-memory storage.ObjectStore.
type memStore struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (m *memStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	m.objects[key] = buf.Bytes()
	m.types[key] = contentType
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memStore) URL(key string) string {
	return "/images/uploads/" + key
}
