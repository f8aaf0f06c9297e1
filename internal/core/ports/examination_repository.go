package ports

import (
	"context"
	"time"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

// ExaminationRepository persists examinations. List methods return newest
// first (created_at, then id, descending) without relations loaded.
type ExaminationRepository interface {
	Create(ctx context.Context, e *domain.Examination) error
	FindByID(ctx context.Context, id domain.ExaminationID) (*domain.Examination, error)

	// CompleteIfOpen writes the diagnosis and sets is_completed in a single
	// conditional update matching id, consultant and is_completed=false. It
	// returns false when nothing matched.
	CompleteIfOpen(ctx context.Context, id domain.ExaminationID, consultant domain.DoctorID, d domain.Diagnosis, at time.Time) (bool, error)

	ListByPatients(ctx context.Context, ids []domain.PatientID) ([]*domain.Examination, error)
	ListByConsultant(ctx context.Context, consultant domain.DoctorID) ([]*domain.Examination, error)

	// CountOpenByConsultant counts examinations not yet completed per doctor.
	// Doctors without open examinations may be absent from the map.
	CountOpenByConsultant(ctx context.Context, ids []domain.DoctorID) (map[domain.DoctorID]int, error)
}
