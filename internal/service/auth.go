package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"pinboard/internal/cache"
	"pinboard/internal/config"
	"pinboard/internal/model"
)

// AuthService issues, resolves and revokes server-side sessions.
// Only the raw token leaves the server; the store is keyed by its hash.
type AuthService struct {
	sessions cache.SessionStore
	config   *config.Config
	now      func() time.Time
}

func NewAuthService(sessions cache.SessionStore, cfg *config.Config) *AuthService {
	return &AuthService{
		sessions: sessions,
		config:   cfg,
		now:      time.Now,
	}
}

// SessionTTL is how long a session stays valid after login.
func (s *AuthService) SessionTTL() time.Duration {
	return time.Duration(s.config.SessionMaxAge) * time.Second
}

// StartSession binds a new opaque token to userID.
func (s *AuthService) StartSession(ctx context.Context, userID int64) (string, error) {
	token := uuid.New().String()
	now := s.now()

	session := model.Session{
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.SessionTTL()),
	}
	if err := s.sessions.Create(ctx, s.hashToken(token), session, s.SessionTTL()); err != nil {
		return "", err
	}

	log.Printf("[AuthService] Session started: user=%d", userID)
	return token, nil
}

// CurrentIdentity returns the user bound to token. Unknown, expired and empty
// tokens all yield an error wrapping model.ErrUnauthorized.
func (s *AuthService) CurrentIdentity(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, model.ErrSessionNotFound
	}

	session, err := s.sessions.Get(ctx, s.hashToken(token))
	if err != nil {
		return 0, err
	}
	if !session.ExpiresAt.IsZero() && s.now().After(session.ExpiresAt) {
		return 0, model.ErrSessionNotFound
	}
	return session.UserID, nil
}

// EndSession revokes token. Unknown and empty tokens succeed.
func (s *AuthService) EndSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, s.hashToken(token)); err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func (s *AuthService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
