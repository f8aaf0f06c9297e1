package ports

import (
	"context"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

// PatientRepository persists clinical patient records.
type PatientRepository interface {
	Create(ctx context.Context, p *domain.Patient) error
	FindByID(ctx context.Context, id domain.PatientID) (*domain.Patient, error)
	// ListByPhone matches phone_number exactly; an empty phone matches nothing.
	ListByPhone(ctx context.Context, phone string) ([]*domain.Patient, error)
	FindByIDs(ctx context.Context, ids []domain.PatientID) (map[domain.PatientID]*domain.Patient, error)
}
