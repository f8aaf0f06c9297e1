package ports

import (
	"context"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

// AccessGate decides whether an actor may perform action on a resource.
type AccessGate interface {
	CanAccess(actor *domain.Actor, res domain.Resource, action domain.Action) bool
}

// AssignmentStrategy picks the consultant for a new examination among the
// active doctors, given in ascending id order. It returns nil when there are
// no candidates.
type AssignmentStrategy interface {
	Name() string
	Pick(ctx context.Context, candidates []*domain.Actor) (*domain.Actor, error)
}
