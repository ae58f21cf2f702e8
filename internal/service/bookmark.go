package service

import (
	"context"
	"strings"

	"pinboard/internal/model"
	"pinboard/internal/repository"
)

// BookmarkService manages each user's saved-image list.
type BookmarkService struct {
	repo repository.BookmarkRepository
}

func NewBookmarkService(repo repository.BookmarkRepository) *BookmarkService {
	return &BookmarkService{repo: repo}
}

// SaveImage appends imageURL unless the user already saved it. A duplicate
// is reported in the result, not as an error.
func (s *BookmarkService) SaveImage(ctx context.Context, userID int64, imageURL, caption string) (*model.SaveImageResult, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, model.NewValidationError("imageUrl", "imageUrl is required")
	}

	created, err := s.repo.Save(ctx, userID, imageURL, strings.TrimSpace(caption))
	if err != nil {
		return nil, err
	}
	return &model.SaveImageResult{Saved: created, AlreadySaved: !created}, nil
}

// UnsaveImage removes the entry at index of the saved list.
func (s *BookmarkService) UnsaveImage(ctx context.Context, userID int64, index int) error {
	if index < 0 {
		return model.ErrInvalidImageIndex
	}
	return s.repo.DeleteAt(ctx, userID, index)
}

// UnsaveImageByURL removes the entry saved under imageURL.
func (s *BookmarkService) UnsaveImageByURL(ctx context.Context, userID int64, imageURL string) error {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return model.NewValidationError("imageUrl", "imageUrl is required")
	}
	return s.repo.DeleteByURL(ctx, userID, imageURL)
}

// ListSaved returns the saved list in save order.
func (s *BookmarkService) ListSaved(ctx context.Context, userID int64) ([]model.SavedImage, error) {
	return s.repo.List(ctx, userID)
}
