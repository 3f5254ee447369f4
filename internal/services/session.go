package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// SessionStore keeps opaque bearer tokens in Redis. A user holds at most one
// live session; signing in again replaces it and restarts the 7-day timer.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Create issues a new session token for userID, revoking any previous one.
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	if err := s.InvalidateUser(ctx, userID); err != nil {
		return "", err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, SessionKeyPrefix+token, userID, SessionDuration)
	pipe.Set(ctx, UserSessionKeyPrefix+userID, token, SessionDuration)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return token, nil
}

// Validate returns the user owning token. Unknown or expired tokens return ok=false.
func (s *SessionStore) Validate(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}
	userID, err := s.client.Get(ctx, SessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return userID, true, nil
}

// Invalidate removes a session and its user mapping.
func (s *SessionStore) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	userID, err := s.client.Get(ctx, SessionKeyPrefix+token).Result()
	if err == nil && userID != "" {
		s.client.Del(ctx, UserSessionKeyPrefix+userID)
	}
	return s.client.Del(ctx, SessionKeyPrefix+token).Err()
}

// InvalidateUser revokes the user's current session, if any.
func (s *SessionStore) InvalidateUser(ctx context.Context, userID string) error {
	token, err := s.client.Get(ctx, UserSessionKeyPrefix+userID).Result()
	if err == nil && token != "" {
		s.client.Del(ctx, SessionKeyPrefix+token)
	}
	return s.client.Del(ctx, UserSessionKeyPrefix+userID).Err()
}
