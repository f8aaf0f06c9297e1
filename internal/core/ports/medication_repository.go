package ports

import (
	"context"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

// MedicationRepository is the medication ledger of examinations.
type MedicationRepository interface {
	DeleteByExamination(ctx context.Context, id domain.ExaminationID) error
	InsertMany(ctx context.Context, meds []domain.Medication) error
	ListByExaminations(ctx context.Context, ids []domain.ExaminationID) (map[domain.ExaminationID][]domain.Medication, error)
}
