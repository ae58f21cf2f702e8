package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pinboard/internal/model"
	"pinboard/internal/queue"
	"pinboard/internal/repository"
)

// UserService handles business logic for user operations
type UserService struct {
	repo      repository.UserRepository
	publisher queue.Publisher // nil disables media reclamation
}

func NewUserService(repo repository.UserRepository, publisher queue.Publisher) *UserService {
	return &UserService{
		repo:      repo,
		publisher: publisher,
	}
}

// Register creates a new identity. Username, email and fullname are trimmed
// and the email is compared lower-cased.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	fullname := strings.TrimSpace(req.Fullname)

	switch {
	case username == "":
		return nil, model.NewValidationError("username", "username is required")
	case email == "":
		return nil, model.NewValidationError("email", "email is required")
	case fullname == "":
		return nil, model.NewValidationError("fullname", "fullname is required")
	case req.Password == "":
		return nil, model.NewValidationError("password", "password is required")
	}

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameExists
	}

	exists, err = s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       username,
		Email:          email,
		Fullname:       fullname,
		PasswordHashed: string(hashedPassword),
	}

	// The unique constraints still decide a race between two registrations.
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrDuplicateIdentity) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[UserService] Registered user=%d username=%s", user.ID, user.Username)
	return user, nil
}

// Login verifies credentials. Unknown user and wrong password fail the same way.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrAuthFailure
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password))
	if err != nil {
		return nil, model.ErrAuthFailure
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfilePicture stores ref as the user's picture. The previous file is
// queued for deletion only after the new reference is committed.
func (s *UserService) UpdateProfilePicture(ctx context.Context, userID int64, ref string) error {
	previous, err := s.repo.UpdateProfilePicture(ctx, userID, ref)
	if err != nil {
		return err
	}

	if previous != nil && *previous != "" && *previous != ref {
		publishOrphan(ctx, s.publisher, "UserService", queue.NewProfilePictureOrphanedEvent(*previous, userID))
	}
	return nil
}

// publishOrphan is best-effort: the record change is already committed.
func publishOrphan(ctx context.Context, publisher queue.Publisher, component string, event queue.MediaEvent) {
	if publisher == nil {
		return
	}
	msgID, err := publisher.Publish(ctx, queue.StreamMedia, event)
	if err != nil {
		log.Printf("[%s] Failed to publish MediaOrphaned: ref=%s err=%v", component, event.Ref, err)
		return
	}
	log.Printf("[%s] Published MediaOrphaned: ref=%s msgID=%s", component, event.Ref, msgID)
}
