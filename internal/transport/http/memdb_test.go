package http

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pinboard/internal/model"
)

// memDB is an in-memory stand-in for Postgres shared by the fake repositories.
type memDB struct {
	mu        sync.Mutex
	users     map[int64]*model.User
	posts     map[int64]*model.Post
	saved     map[int64][]model.SavedImage
	nextUser  int64
	nextPost  int64
	nextSaved int64
	clock     time.Time
}

func newMemDB() *memDB {
	return &memDB{
		users: make(map[int64]*model.User),
		posts: make(map[int64]*model.Post),
		saved: make(map[int64][]model.SavedImage),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp. Callers hold mu.
func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(ctx context.Context, u *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.Username == u.Username {
			return model.ErrUsernameExists
		}
		if existing.Email == u.Email {
			return model.ErrEmailExists
		}
	}
	r.db.nextUser++
	u.ID = r.db.nextUser
	u.CreatedAt = r.db.tick()
	u.UpdatedAt = u.CreatedAt
	u.PostIDs = nil
	stored := *u
	r.db.users[u.ID] = &stored
	return nil
}

func (r memUsers) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	cp.PostIDs = append(cp.PostIDs[:0:0], u.PostIDs...)
	return &cp, nil
}

func (r memUsers) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r memUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) UpdateProfilePicture(ctx context.Context, userID int64, ref string) (*string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	prev := u.ProfilePictureRef
	u.ProfilePictureRef = &ref
	return prev, nil
}

type memPosts struct{ db *memDB }

func (r memPosts) Create(ctx context.Context, userID int64, imageRef string, caption *string) (*model.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	owner, ok := r.db.users[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	r.db.nextPost++
	p := &model.Post{ID: r.db.nextPost, UserID: userID, ImageRef: imageRef, Caption: caption, CreatedAt: r.db.tick()}
	r.db.posts[p.ID] = p
	owner.PostIDs = append(owner.PostIDs, p.ID)
	cp := *p
	return &cp, nil
}

func (r memPosts) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.posts[postID]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memPosts) GetByIDs(ctx context.Context, postIDs []int64) ([]model.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []model.Post{}
	for _, id := range postIDs {
		if p, ok := r.db.posts[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r memPosts) ListFeed(ctx context.Context) ([]model.FeedPost, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	feed := []model.FeedPost{}
	for _, p := range r.db.posts {
		owner := r.db.users[p.UserID]
		feed = append(feed, model.FeedPost{
			Post:   *p,
			Author: model.UserSummary{ID: owner.ID, Username: owner.Username, Fullname: owner.Fullname},
		})
	}
	sort.Slice(feed, func(i, j int) bool {
		if !feed[i].CreatedAt.Equal(feed[j].CreatedAt) {
			return feed[i].CreatedAt.Before(feed[j].CreatedAt)
		}
		return feed[i].ID < feed[j].ID
	})
	return feed, nil
}

func (r memPosts) Delete(ctx context.Context, postID, userID int64) (*model.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.posts[postID]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	if p.UserID != userID {
		return nil, model.ErrNotPostOwner
	}
	owner := r.db.users[userID]
	kept := owner.PostIDs[:0]
	for _, id := range owner.PostIDs {
		if id != postID {
			kept = append(kept, id)
		}
	}
	owner.PostIDs = kept
	delete(r.db.posts, postID)
	return p, nil
}

type memBookmarks struct{ db *memDB }

func (r memBookmarks) Save(ctx context.Context, userID int64, imageURL, caption string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, img := range r.db.saved[userID] {
		if img.ImageURL == imageURL {
			return false, nil
		}
	}
	r.db.nextSaved++
	r.db.saved[userID] = append(r.db.saved[userID], model.SavedImage{
		ID: r.db.nextSaved, UserID: userID, ImageURL: imageURL, Caption: caption, SavedAt: r.db.tick(),
	})
	return true, nil
}

func (r memBookmarks) List(ctx context.Context, userID int64) ([]model.SavedImage, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]model.SavedImage{}, r.db.saved[userID]...), nil
}

func (r memBookmarks) DeleteAt(ctx context.Context, userID int64, index int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	list := r.db.saved[userID]
	if index < 0 || index >= len(list) {
		return model.ErrInvalidImageIndex
	}
	r.db.saved[userID] = append(list[:index:index], list[index+1:]...)
	return nil
}

func (r memBookmarks) DeleteByURL(ctx context.Context, userID int64, imageURL string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	list := r.db.saved[userID]
	for i, img := range list {
		if img.ImageURL == imageURL {
			r.db.saved[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return model.ErrSavedImageNotFound
}

var errDBDown = errors.New("db down")

type failingFeed struct{ memPosts }

func (r failingFeed) ListFeed(ctx context.Context) ([]model.FeedPost, error) {
	return nil, model.StoreError("list feed", errDBDown)
}

type failingCreate struct{ memPosts }

func (r failingCreate) Create(ctx context.Context, userID int64, imageRef string, caption *string) (*model.Post, error) {
	return nil, model.StoreError("create post", errDBDown)
}

type failingProfilePicture struct{ memUsers }

func (r failingProfilePicture) UpdateProfilePicture(ctx context.Context, userID int64, ref string) (*string, error) {
	return nil, model.StoreError("update profile picture", errDBDown)
}
