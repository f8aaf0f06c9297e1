package ports

import (
	"context"
	"time"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

// SessionStore keeps the server side of a login. A token is only honoured
// while its session id is present.
type SessionStore interface {
	Create(ctx context.Context, sessionID string, actor domain.ActorID, ttl time.Duration) error
	// Lookup returns domain.ErrSessionNotFound for unknown or expired sessions.
	Lookup(ctx context.Context, sessionID string) (domain.ActorID, error)
	Extend(ctx context.Context, sessionID string, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// Counter hands out increasing numbers per key.
type Counter interface {
	Next(ctx context.Context, key string) (int64, error)
}
