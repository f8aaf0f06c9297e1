package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Actors
// ---------------------------------------------------------------------------

type ActorRepository struct{ base }

func (r *ActorRepository) Create(ctx context.Context, a *domain.Actor) (*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := toActorRow(a)
	if err := r.conn(ctx).Create(&row).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			switch constraint {
			case constraintActorEmail:
				return nil, domain.ErrDuplicateEmail
			case constraintActorLicense:
				return nil, domain.ErrDuplicateLicense
			}
			return nil, domain.ErrDuplicatePhone
		}
		return nil, fmt.Errorf("insert actor: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ActorRepository) first(ctx context.Context, query string, arg any) (*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row actorRow
	if err := r.conn(ctx).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrActorNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *ActorRepository) FindByID(ctx context.Context, id domain.ActorID) (*domain.Actor, error) {
	return r.first(ctx, "id = ?", int64(id))
}

func (r *ActorRepository) FindByPhone(ctx context.Context, phone string) (*domain.Actor, error) {
	return r.first(ctx, "phone_number = ?", phone)
}

func (r *ActorRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	if err := r.conn(ctx).Model(&actorRow{}).Where("phone_number = ?", phone).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ActorRepository) ListActiveByRole(ctx context.Context, role domain.Role) ([]*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []actorRow
	if err := r.conn(ctx).Where("role = ? AND is_active = ?", string(role), true).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Actor, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ActorRepository) FindByIDs(ctx context.Context, ids []domain.ActorID) (map[domain.ActorID]*domain.Actor, error) {
	out := make(map[domain.ActorID]*domain.Actor, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []actorRow
	if err := r.conn(ctx).Where("id IN ?", int64s(ids)).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		a := row.toDomain()
		out[a.ID] = a
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Patients
// ---------------------------------------------------------------------------

type PatientRepository struct{ base }

func (r *PatientRepository) Create(ctx context.Context, p *domain.Patient) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := patientRow{
		Name:        p.Name,
		Age:         p.Age,
		Gender:      string(p.Gender),
		PhoneNumber: p.PhoneNumber,
		Address:     p.Address,
		CreatedAt:   p.CreatedAt,
	}
	if err := r.conn(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	p.ID = domain.PatientID(row.ID)
	return nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id domain.PatientID) (*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row patientRow
	if err := r.conn(ctx).Where("id = ?", int64(id)).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *PatientRepository) ListByPhone(ctx context.Context, phone string) ([]*domain.Patient, error) {
	if phone == "" {
		return []*domain.Patient{}, nil
	}
	return r.find(ctx, "phone_number = ?", phone)
}

func (r *PatientRepository) FindByIDs(ctx context.Context, ids []domain.PatientID) (map[domain.PatientID]*domain.Patient, error) {
	out := make(map[domain.PatientID]*domain.Patient, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := r.find(ctx, "id IN ?", int64s(ids))
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

func (r *PatientRepository) find(ctx context.Context, query string, arg any) ([]*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []patientRow
	if err := r.conn(ctx).Where(query, arg).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Patient, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Examinations
// ---------------------------------------------------------------------------

type ExaminationRepository struct{ base }

func (r *ExaminationRepository) Create(ctx context.Context, e *domain.Examination) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := examinationRow{
		PatientID:            int64(e.PatientID),
		OptometristID:        int64(e.OptometristID),
		DateOfVisit:          e.DateOfVisit,
		Clinical:             e.Clinical,
		DiagnosisNotes:       e.Diagnosis.Notes,
		ProvisionalDiagnosis: e.Diagnosis.ProvisionalDiagnosis,
		Advice:               e.Diagnosis.Advice,
		IsCompleted:          e.IsCompleted,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
	if e.ConsultantID != nil {
		c := int64(*e.ConsultantID)
		row.ConsultantID = &c
	}
	if err := r.conn(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert examination: %w", err)
	}
	e.ID = domain.ExaminationID(row.ID)
	return nil
}

func (r *ExaminationRepository) FindByID(ctx context.Context, id domain.ExaminationID) (*domain.Examination, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row examinationRow
	if err := r.conn(ctx).Where("id = ?", int64(id)).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExaminationNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *ExaminationRepository) CompleteIfOpen(ctx context.Context, id domain.ExaminationID, consultant domain.DoctorID, d domain.Diagnosis, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.conn(ctx).Model(&examinationRow{}).
		Where("id = ? AND consultant_id = ? AND is_completed = ?", int64(id), int64(consultant), false).
		Updates(map[string]any{
			"diagnosis_notes":       d.Notes,
			"provisional_diagnosis": d.ProvisionalDiagnosis,
			"advice":                d.Advice,
			"is_completed":          true,
			"updated_at":            at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("complete examination: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *ExaminationRepository) ListByPatients(ctx context.Context, ids []domain.PatientID) ([]*domain.Examination, error) {
	if len(ids) == 0 {
		return []*domain.Examination{}, nil
	}
	return r.find(ctx, "patient_id IN ?", int64s(ids))
}

func (r *ExaminationRepository) ListByConsultant(ctx context.Context, consultant domain.DoctorID) ([]*domain.Examination, error) {
	return r.find(ctx, "consultant_id = ?", int64(consultant))
}

func (r *ExaminationRepository) find(ctx context.Context, query string, arg any) ([]*domain.Examination, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []examinationRow
	if err := r.conn(ctx).Where(query, arg).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Examination, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ExaminationRepository) CountOpenByConsultant(ctx context.Context, ids []domain.DoctorID) (map[domain.DoctorID]int, error) {
	out := make(map[domain.DoctorID]int, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []struct {
		ConsultantID int64
		OpenCount    int
	}
	err := r.conn(ctx).Model(&examinationRow{}).
		Select("consultant_id, COUNT(*) AS open_count").
		Where("consultant_id IN ? AND is_completed = ?", int64s(ids), false).
		Group("consultant_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count open examinations: %w", err)
	}
	for _, row := range rows {
		out[domain.DoctorID(row.ConsultantID)] = row.OpenCount
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Medications
// ---------------------------------------------------------------------------

type MedicationRepository struct{ base }

func (r *MedicationRepository) DeleteByExamination(ctx context.Context, id domain.ExaminationID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := r.conn(ctx).Where("examination_id = ?", int64(id)).Delete(&medicationRow{}).Error; err != nil {
		return fmt.Errorf("delete medications: %w", err)
	}
	return nil
}

func (r *MedicationRepository) InsertMany(ctx context.Context, meds []domain.Medication) error {
	if len(meds) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows := make([]medicationRow, 0, len(meds))
	for _, m := range meds {
		rows = append(rows, medicationRow{
			ExaminationID: int64(m.ExaminationID),
			Name:          m.Name,
			Quantity:      m.Quantity,
			Frequency:     m.Frequency,
			Eye:           string(m.Eye),
			Duration:      m.Duration,
			Instructions:  m.Instructions,
		})
	}
	if err := r.conn(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert medications: %w", err)
	}
	return nil
}

func (r *MedicationRepository) ListByExaminations(ctx context.Context, ids []domain.ExaminationID) (map[domain.ExaminationID][]domain.Medication, error) {
	out := make(map[domain.ExaminationID][]domain.Medication, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []medicationRow
	if err := r.conn(ctx).Where("examination_id IN ?", int64s(ids)).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		m := row.toDomain()
		out[m.ExaminationID] = append(out[m.ExaminationID], m)
	}
	return out, nil
}

func int64s[T ~int64](ids []T) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		out = append(out, int64(id))
	}
	return out
}
