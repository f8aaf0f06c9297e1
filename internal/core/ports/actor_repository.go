package ports

import (
	"context"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

// ActorRepository persists accounts of every role.
type ActorRepository interface {
	// Create assigns the next id. Unique phone, email and license violations
	// map to the matching domain.ErrDuplicate* error.
	Create(ctx context.Context, actor *domain.Actor) (*domain.Actor, error)
	FindByID(ctx context.Context, id domain.ActorID) (*domain.Actor, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Actor, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	// ListActiveByRole returns active actors holding role in ascending id order.
	ListActiveByRole(ctx context.Context, role domain.Role) ([]*domain.Actor, error)
	// FindByIDs returns the actors that exist; missing ids are absent from the map.
	FindByIDs(ctx context.Context, ids []domain.ActorID) (map[domain.ActorID]*domain.Actor, error)
}
