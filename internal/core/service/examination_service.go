package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
	"github.com/eyeclinic/clinic-system/internal/core/ports"
)

// errNotCompleted aborts the consultation transaction when the conditional
// completion matched no examination.
var errNotCompleted = errors.New("conditional completion matched nothing")

// ExaminationService owns intake, consultant assignment, consultation and the
// role-scoped examination queries.
type ExaminationService struct {
	actors   ports.ActorRepository
	patients ports.PatientRepository
	exams    ports.ExaminationRepository
	meds     ports.MedicationRepository
	tx       ports.Transactor
	gate     ports.AccessGate
	assign   ports.AssignmentStrategy
	logger   zerolog.Logger
	now      func() time.Time
}

func NewExaminationService(stores ports.Stores, gate ports.AccessGate, assign ports.AssignmentStrategy, logger zerolog.Logger) *ExaminationService {
	if assign == nil {
		assign = FirstActive{}
	}
	return &ExaminationService{
		actors:   stores.Actors,
		patients: stores.Patients,
		exams:    stores.Examinations,
		meds:     stores.Medications,
		tx:       stores.Tx,
		gate:     gate,
		assign:   assign,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateExamination records an intake by the optometrist. The patient and the
// examination are written in one transaction.
func (s *ExaminationService) CreateExamination(ctx context.Context, by domain.Optometrist, in ports.CreateExaminationInput) (*domain.Examination, error) {
	if !s.gate.CanAccess(by.Account(), domain.Resource{Kind: domain.ResourceExamination}, domain.ActionCreate) {
		return nil, domain.ErrForbidden
	}

	consultant, method, err := s.resolveConsultant(ctx, in.ConsultantID)
	if err != nil {
		return nil, fmt.Errorf("create examination: %w", err)
	}
	var consultantID *domain.DoctorID
	if consultant != nil {
		d, _ := consultant.AsDoctor()
		id := d.ID()
		consultantID = &id
	}

	var (
		exam    *domain.Examination
		patient *domain.Patient
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		patient, err = s.resolvePatient(ctx, in)
		if err != nil {
			return err
		}
		exam = domain.NewExamination(by, patient.ID, consultantID, in.Clinical, s.now())
		return s.exams.Create(ctx, exam)
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("create examination: %w", err)
	}

	exam.Patient = patient
	exam.Optometrist = by.Account().Summary()
	exam.Consultant = consultant.Summary()
	exam.Medications = []domain.Medication{}

	s.logger.Info().
		Int64("exam_id", int64(exam.ID)).
		Int64("patient_id", int64(patient.ID)).
		Int64("optometrist_id", int64(by.ID())).
		Str("assignment", method).
		Bool("has_consultant", consultant != nil).
		Msg("examination created")

	return exam, nil
}

// resolvePatient uses the referenced patient when it exists, otherwise creates
// one from the inline fields.
func (s *ExaminationService) resolvePatient(ctx context.Context, in ports.CreateExaminationInput) (*domain.Patient, error) {
	if in.PatientID != nil {
		p, err := s.patients.FindByID(ctx, *in.PatientID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, domain.ErrPatientNotFound) {
			return nil, err
		}
	}

	np := in.NewPatient
	name := strings.TrimSpace(np.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: an existing patient id or a patient name is required", domain.ErrValidation)
	}
	if np.Age < 0 {
		return nil, fmt.Errorf("%w: age must not be negative", domain.ErrValidation)
	}
	gender, ok := domain.ParseGender(np.Gender)
	if !ok {
		return nil, fmt.Errorf("%w: gender must be one of male, female, other", domain.ErrValidation)
	}

	p := &domain.Patient{
		Name:        name,
		Age:         np.Age,
		Gender:      gender,
		PhoneNumber: strings.TrimSpace(np.PhoneNumber),
		Address:     strings.TrimSpace(np.Address),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// resolveConsultant honours an explicit id only when it names an active
// doctor; otherwise the assignment strategy decides. No available doctor is
// not an error.
func (s *ExaminationService) resolveConsultant(ctx context.Context, explicit *domain.ActorID) (*domain.Actor, string, error) {
	if explicit != nil {
		a, err := s.actors.FindByID(ctx, *explicit)
		switch {
		case err == nil && a.IsActive && domain.AuthorizeRole(a, domain.RoleDoctor):
			return a, "explicit", nil
		case err != nil && !errors.Is(err, domain.ErrActorNotFound):
			return nil, "", err
		}
		s.logger.Debug().Int64("consultant_id", int64(*explicit)).Msg("requested consultant unavailable, falling back to strategy")
	}

	candidates, err := s.actors.ListActiveByRole(ctx, domain.RoleDoctor)
	if err != nil {
		return nil, "", err
	}
	picked, err := s.assign.Pick(ctx, candidates)
	if err != nil {
		return nil, "", err
	}
	if picked == nil {
		return nil, "none", nil
	}
	return picked, s.assign.Name(), nil
}

// ConsultAndComplete records the consultant's diagnosis and closes the
// examination. Completion is a conditional update inside the same transaction
// as the medication replacement, so a concurrent second submission cannot
// pass and a failed insert leaves the previous medications in place.
func (s *ExaminationService) ConsultAndComplete(ctx context.Context, by domain.Doctor, in ports.ConsultInput) (*domain.Examination, error) {
	exam, err := s.exams.FindByID(ctx, in.ExaminationID)
	if err != nil {
		return nil, err
	}
	if !s.gate.CanAccess(by.Account(), domain.ExaminationResource(exam), domain.ActionConsult) {
		return nil, domain.ErrForbidden
	}
	if exam.IsCompleted {
		return nil, domain.ErrAlreadyCompleted
	}

	meds, err := in.Medications.Build(exam.ID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.exams.CompleteIfOpen(ctx, exam.ID, by.ID(), in.Diagnosis, now)
		if err != nil {
			return err
		}
		if !ok {
			return errNotCompleted
		}
		if !in.Medications.Submitted() {
			return nil
		}
		if err := s.meds.DeleteByExamination(ctx, exam.ID); err != nil {
			return err
		}
		if len(meds) == 0 {
			return nil
		}
		return s.meds.InsertMany(ctx, meds)
	})
	if errors.Is(err, errNotCompleted) {
		return nil, s.explainMiss(ctx, exam.ID, by.ID())
	}
	if err != nil {
		return nil, fmt.Errorf("consult examination %d: %w", exam.ID, err)
	}

	s.logger.Info().
		Int64("exam_id", int64(exam.ID)).
		Int64("doctor_id", int64(by.ID())).
		Bool("medications_replaced", in.Medications.Submitted()).
		Int("medications", len(meds)).
		Msg("examination completed")

	done, err := s.exams.FindByID(ctx, exam.ID)
	if err != nil {
		return nil, fmt.Errorf("reload examination %d: %w", exam.ID, err)
	}
	if err := s.hydrate(ctx, []*domain.Examination{done}); err != nil {
		return nil, err
	}
	return done, nil
}

// explainMiss re-reads an examination whose conditional completion matched
// nothing and reports why. A race lost to another submission ends up as
// ErrAlreadyCompleted.
func (s *ExaminationService) explainMiss(ctx context.Context, id domain.ExaminationID, doctor domain.DoctorID) error {
	current, err := s.exams.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := current.CheckConsultable(doctor); err != nil {
		return err
	}
	return domain.ErrAlreadyCompleted
}

// ListOwnExaminations returns the examinations of every patient record linked
// to the account by phone number, newest first, with relations loaded.
func (s *ExaminationService) ListOwnExaminations(ctx context.Context, by domain.PatientAccount) ([]*domain.Examination, error) {
	dash, err := s.PatientDashboard(ctx, by)
	if err != nil {
		return nil, err
	}
	return dash.Examinations, nil
}

func (s *ExaminationService) PatientDashboard(ctx context.Context, by domain.PatientAccount) (*ports.PatientDashboard, error) {
	if !s.gate.CanAccess(by.Account(), domain.Resource{Kind: domain.ResourceExamination}, domain.ActionListOwn) {
		return nil, domain.ErrForbidden
	}

	candidates, err := s.patients.ListByPhone(ctx, by.PhoneNumber())
	if err != nil {
		return nil, fmt.Errorf("list own examinations: %w", err)
	}
	linked := make([]*domain.Patient, 0, len(candidates))
	ids := make([]domain.PatientID, 0, len(candidates))
	for _, p := range candidates {
		if domain.LinkedByPhone(p, by) {
			linked = append(linked, p)
			ids = append(ids, p.ID)
		}
	}

	dash := &ports.PatientDashboard{Patients: linked, Examinations: []*domain.Examination{}}
	if len(ids) == 0 {
		return dash, nil
	}

	exams, err := s.exams.ListByPatients(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list own examinations: %w", err)
	}
	if err := s.hydrate(ctx, exams); err != nil {
		return nil, err
	}
	dash.Examinations = exams
	return dash, nil
}

// DoctorDashboard lists the examinations assigned to the doctor, newest first.
func (s *ExaminationService) DoctorDashboard(ctx context.Context, by domain.Doctor) ([]*domain.Examination, error) {
	if !s.gate.CanAccess(by.Account(), domain.Resource{Kind: domain.ResourceExamination}, domain.ActionListAssigned) {
		return nil, domain.ErrForbidden
	}
	exams, err := s.exams.ListByConsultant(ctx, by.ID())
	if err != nil {
		return nil, fmt.Errorf("doctor dashboard: %w", err)
	}
	if err := s.hydrate(ctx, exams); err != nil {
		return nil, err
	}
	return exams, nil
}

// hydrate loads patient, optometrist, consultant and medications for exams
// with one batched query per relation.
func (s *ExaminationService) hydrate(ctx context.Context, exams []*domain.Examination) error {
	if len(exams) == 0 {
		return nil
	}

	patientIDs := make([]domain.PatientID, 0, len(exams))
	actorIDs := make([]domain.ActorID, 0, len(exams)*2)
	examIDs := make([]domain.ExaminationID, 0, len(exams))
	for _, e := range exams {
		patientIDs = append(patientIDs, e.PatientID)
		actorIDs = append(actorIDs, domain.ActorID(e.OptometristID))
		if e.ConsultantID != nil {
			actorIDs = append(actorIDs, domain.ActorID(*e.ConsultantID))
		}
		examIDs = append(examIDs, e.ID)
	}

	patients, err := s.patients.FindByIDs(ctx, patientIDs)
	if err != nil {
		return fmt.Errorf("load patients: %w", err)
	}
	actors, err := s.actors.FindByIDs(ctx, actorIDs)
	if err != nil {
		return fmt.Errorf("load actors: %w", err)
	}
	meds, err := s.meds.ListByExaminations(ctx, examIDs)
	if err != nil {
		return fmt.Errorf("load medications: %w", err)
	}

	for _, e := range exams {
		e.Patient = patients[e.PatientID]
		e.Optometrist = actors[domain.ActorID(e.OptometristID)].Summary()
		if e.ConsultantID != nil {
			e.Consultant = actors[domain.ActorID(*e.ConsultantID)].Summary()
		}
		e.Medications = meds[e.ID]
		if e.Medications == nil {
			e.Medications = []domain.Medication{}
		}
	}
	return nil
}
