package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"pinboard/internal/model"
	"pinboard/internal/queue"
	"pinboard/internal/repository"
)

// URLResolver maps a stored reference to its public location.
type URLResolver interface {
	URL(ref string) string
}

type PostService struct {
	postRepo     repository.PostRepository
	userRepo     repository.UserRepository
	bookmarkRepo repository.BookmarkRepository
	urls         URLResolver
	publisher    queue.Publisher // nil disables media reclamation
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	bookmarkRepo repository.BookmarkRepository,
	urls URLResolver,
	publisher queue.Publisher,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		userRepo:     userRepo,
		bookmarkRepo: bookmarkRepo,
		urls:         urls,
		publisher:    publisher,
	}
}

// Create stores a post for imageRef. An empty caption is stored as NULL.
func (s *PostService) Create(ctx context.Context, userID int64, imageRef, caption string) (*model.Post, error) {
	if imageRef == "" {
		return nil, model.NewValidationError("image", "image is required")
	}

	var captionPtr *string
	if c := strings.TrimSpace(caption); c != "" {
		if len(c) > model.MaxPostCaptionLength {
			return nil, model.ErrCaptionTooLong
		}
		captionPtr = &c
	}

	post, err := s.postRepo.Create(ctx, userID, imageRef, captionPtr)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.resolvePost(post)

	log.Printf("[PostService] Created post=%d user=%d", post.ID, userID)
	return post, nil
}

// ListFeed returns every post with its owner summary, oldest first.
func (s *PostService) ListFeed(ctx context.Context) ([]model.FeedPost, error) {
	feed, err := s.postRepo.ListFeed(ctx)
	if err != nil {
		return nil, err
	}
	for i := range feed {
		s.resolvePost(&feed[i].Post)
	}
	return feed, nil
}

// GetProfile returns the user with its posts in post-list order and its bookmarks.
func (s *PostService) GetProfile(ctx context.Context, userID int64) (*model.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ProfilePictureRef != nil {
		url := s.urls.URL(*user.ProfilePictureRef)
		user.ProfilePictureURL = &url
	}

	posts, err := s.postRepo.GetByIDs(ctx, user.PostIDs)
	if err != nil {
		return nil, fmt.Errorf("get profile posts: %w", err)
	}
	for i := range posts {
		s.resolvePost(&posts[i])
	}

	saved, err := s.bookmarkRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get saved images: %w", err)
	}

	return &model.ProfileResponse{
		User:        user,
		Posts:       posts,
		SavedImages: saved,
	}, nil
}

// Delete removes a post owned by userID and queues its image for reclamation.
func (s *PostService) Delete(ctx context.Context, postID, userID int64) error {
	post, err := s.postRepo.Delete(ctx, postID, userID)
	if err != nil {
		return err
	}

	log.Printf("[PostService] Deleted post=%d user=%d", postID, userID)
	publishOrphan(ctx, s.publisher, "PostService", queue.NewPostImageOrphanedEvent(post.ImageRef, postID, userID))
	return nil
}

func (s *PostService) resolvePost(p *model.Post) {
	p.ImageURL = s.urls.URL(p.ImageRef)
}
