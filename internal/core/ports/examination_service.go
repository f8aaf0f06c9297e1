package ports

import (
	"context"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

// NewPatientInput describes a patient created inline at intake.
type NewPatientInput struct {
	Name        string
	Age         int
	Gender      string
	PhoneNumber string
	Address     string
}

// CreateExaminationInput references an existing patient or carries a new one.
// PatientID wins when it resolves.
type CreateExaminationInput struct {
	PatientID    *domain.PatientID
	NewPatient   NewPatientInput
	ConsultantID *domain.ActorID
	Clinical     domain.ClinicalFindings
}

type ConsultInput struct {
	ExaminationID domain.ExaminationID
	Diagnosis     domain.Diagnosis
	Medications   domain.MedicationRows
}

// PatientDashboard is what a patient account sees: the linked patient records
// and their examinations.
type PatientDashboard struct {
	Patients     []*domain.Patient
	Examinations []*domain.Examination
}

type ExaminationService interface {
	CreateExamination(ctx context.Context, by domain.Optometrist, in CreateExaminationInput) (*domain.Examination, error)
	ConsultAndComplete(ctx context.Context, by domain.Doctor, in ConsultInput) (*domain.Examination, error)
	ListOwnExaminations(ctx context.Context, by domain.PatientAccount) ([]*domain.Examination, error)
	PatientDashboard(ctx context.Context, by domain.PatientAccount) (*PatientDashboard, error)
	DoctorDashboard(ctx context.Context, by domain.Doctor) ([]*domain.Examination, error)
}
