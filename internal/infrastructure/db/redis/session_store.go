package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

// SessionStore keeps live login sessions.
// Key format: session:<session_id> -> actor id, expiring with the refresh token.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Create(ctx context.Context, sessionID string, actor domain.ActorID, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(sessionID), strconv.FormatInt(int64(actor), 10), ttl).Err(); err != nil {
		return fmt.Errorf("session create: %w", err)
	}
	return nil
}

func (s *SessionStore) Lookup(ctx context.Context, sessionID string) (domain.ActorID, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, domain.ErrSessionNotFound
		}
		return 0, fmt.Errorf("session lookup: %w", err)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.ErrSessionNotFound
	}
	return domain.ActorID(id), nil
}

func (s *SessionStore) Extend(ctx context.Context, sessionID string, ttl time.Duration) error {
	ok, err := s.client.Expire(ctx, s.key(sessionID), ttl).Result()
	if err != nil {
		return fmt.Errorf("session extend: %w", err)
	}
	if !ok {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "session:" + sessionID
}
