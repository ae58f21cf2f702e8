package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"pinboard/internal/model"
)

// SessionKeyPrefix is the key prefix for stored sessions.
const SessionKeyPrefix = "session:"

// SessionStore holds server-side sessions keyed by the hash of their token.
// Only the authentication service and the session gate talk to it.
type SessionStore interface {
	// Create stores a session that expires after ttl.
	Create(ctx context.Context, tokenHash string, session model.Session, ttl time.Duration) error

	// Get returns the session or model.ErrSessionNotFound.
	Get(ctx context.Context, tokenHash string) (*model.Session, error)

	// Delete removes the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, tokenHash string) error
}

// RedisSessionStore implements SessionStore with plain string keys and TTLs.
type RedisSessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore backed by Redis.
func NewSessionStore(client *redis.Client) SessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(tokenHash string) string {
	return SessionKeyPrefix + tokenHash
}

// Create stores the session as JSON with SET ... EX.
func (s *RedisSessionStore) Create(ctx context.Context, tokenHash string, session model.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(tokenHash), data, ttl).Err(); err != nil {
		log.Printf("[SessionStore] Create FAILED: user=%d err=%v", session.UserID, err)
		return model.StoreError("create session", err)
	}

	log.Printf("[SessionStore] Create OK: user=%d ttl=%v", session.UserID, ttl)
	return nil
}

// Get loads a session. A missing key means the session expired or never existed.
func (s *RedisSessionStore) Get(ctx context.Context, tokenHash string) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(tokenHash)).Bytes()
	if err == redis.Nil {
		return nil, model.ErrSessionNotFound
	}
	if err != nil {
		log.Printf("[SessionStore] Get FAILED: err=%v", err)
		return nil, model.StoreError("get session", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		log.Printf("[SessionStore] Get: corrupt session payload, treating as missing: %v", err)
		return nil, model.ErrSessionNotFound
	}
	return &session, nil
}

// Delete removes a session with DEL.
func (s *RedisSessionStore) Delete(ctx context.Context, tokenHash string) error {
	removed, err := s.client.Del(ctx, sessionKey(tokenHash)).Result()
	if err != nil {
		log.Printf("[SessionStore] Delete FAILED: err=%v", err)
		return model.StoreError("delete session", err)
	}

	log.Printf("[SessionStore] Delete OK: removed=%d", removed)
	return nil
}
