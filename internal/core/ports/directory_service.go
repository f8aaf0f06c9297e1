package ports

import (
	"context"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

type DirectoryService interface {
	ListOptometrists(ctx context.Context) ([]*domain.Actor, error)
	GetOptometrist(ctx context.Context, id domain.ActorID) (*domain.Actor, error)
	ListDoctors(ctx context.Context) ([]*domain.Actor, error)
}
