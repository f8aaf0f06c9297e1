package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
	"github.com/eyeclinic/clinic-system/internal/core/ports"
)

// DirectoryService lists the clinic's staff.
type DirectoryService struct {
	actors ports.ActorRepository
}

func NewDirectoryService(actors ports.ActorRepository) *DirectoryService {
	return &DirectoryService{actors: actors}
}

// ListOptometrists returns active optometrists, newest account first.
func (s *DirectoryService) ListOptometrists(ctx context.Context) ([]*domain.Actor, error) {
	list, err := s.actors.ListActiveByRole(ctx, domain.RoleOptometrist)
	if err != nil {
		return nil, fmt.Errorf("list optometrists: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

// GetOptometrist returns ErrActorNotFound unless id names an active
// optometrist.
func (s *DirectoryService) GetOptometrist(ctx context.Context, id domain.ActorID) (*domain.Actor, error) {
	a, err := s.actors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsActive || !domain.AuthorizeRole(a, domain.RoleOptometrist) {
		return nil, domain.ErrActorNotFound
	}
	return a, nil
}

// ListDoctors returns active doctors in ascending id order.
func (s *DirectoryService) ListDoctors(ctx context.Context) ([]*domain.Actor, error) {
	list, err := s.actors.ListActiveByRole(ctx, domain.RoleDoctor)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return list, nil
}
