package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
	"github.com/eyeclinic/clinic-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory store shared by the stub repositories
// ---------------------------------------------------------------------------

type memDB struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	seq      int64
	actors   map[domain.ActorID]*domain.Actor
	patients map[domain.PatientID]*domain.Patient
	exams    map[domain.ExaminationID]*domain.Examination
	meds     map[domain.ExaminationID][]domain.Medication

	insertMedsErr error // if set, InsertMany returns this error
	completeCalls int
}

func newMemDB() *memDB {
	return &memDB{
		actors:   make(map[domain.ActorID]*domain.Actor),
		patients: make(map[domain.PatientID]*domain.Patient),
		exams:    make(map[domain.ExaminationID]*domain.Examination),
		meds:     make(map[domain.ExaminationID][]domain.Medication),
	}
}

func (db *memDB) nextID() int64 {
	db.seq++
	return db.seq
}

func (db *memDB) stores() ports.Stores {
	return ports.Stores{
		Actors:       memActors{db},
		Patients:     memPatients{db},
		Examinations: memExams{db},
		Medications:  memMeds{db},
		Tx:           memTx{db},
	}
}

// addActor stores an active actor and returns it.
func (db *memDB) addActor(name, phone string, role domain.Role) *domain.Actor {
	db.mu.Lock()
	defer db.mu.Unlock()
	a := &domain.Actor{
		ID:          domain.ActorID(db.nextID()),
		Name:        name,
		PhoneNumber: phone,
		Role:        role,
		IsActive:    true,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, int(db.seq), 0, time.UTC),
	}
	db.actors[a.ID] = a
	return a
}

func (db *memDB) addPatient(name, phone string) *domain.Patient {
	db.mu.Lock()
	defer db.mu.Unlock()
	p := &domain.Patient{ID: domain.PatientID(db.nextID()), Name: name, PhoneNumber: phone, Gender: domain.GenderOther}
	db.patients[p.ID] = p
	return p
}

func (db *memDB) exam(id domain.ExaminationID) *domain.Examination {
	db.mu.Lock()
	defer db.mu.Unlock()
	e, ok := db.exams[id]
	if !ok {
		return nil
	}
	clone := *e
	return &clone
}

func (db *memDB) medsOf(id domain.ExaminationID) []domain.Medication {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]domain.Medication(nil), db.meds[id]...)
}

// ---------------------------------------------------------------------------
// Transactor: serialises transactions and restores exams and meds on error
// ---------------------------------------------------------------------------

type memTx struct{ db *memDB }

func (t memTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.db.txMu.Lock()
	defer t.db.txMu.Unlock()

	t.db.mu.Lock()
	exams := make(map[domain.ExaminationID]domain.Examination, len(t.db.exams))
	for id, e := range t.db.exams {
		exams[id] = *e
	}
	meds := make(map[domain.ExaminationID][]domain.Medication, len(t.db.meds))
	for id, m := range t.db.meds {
		meds[id] = append([]domain.Medication(nil), m...)
	}
	patients := make(map[domain.PatientID]*domain.Patient, len(t.db.patients))
	for id, p := range t.db.patients {
		patients[id] = p
	}
	t.db.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.db.mu.Lock()
		t.db.exams = make(map[domain.ExaminationID]*domain.Examination, len(exams))
		for id, e := range exams {
			e := e
			t.db.exams[id] = &e
		}
		t.db.meds = meds
		t.db.patients = patients
		t.db.mu.Unlock()
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Actors
// ---------------------------------------------------------------------------

type memActors struct{ db *memDB }

func (r memActors) Create(_ context.Context, a *domain.Actor) (*domain.Actor, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.actors {
		if existing.PhoneNumber == a.PhoneNumber {
			return nil, domain.ErrDuplicatePhone
		}
	}
	clone := *a
	clone.ID = domain.ActorID(r.db.nextID())
	r.db.actors[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r memActors) FindByID(_ context.Context, id domain.ActorID) (*domain.Actor, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.actors[id]
	if !ok {
		return nil, domain.ErrActorNotFound
	}
	clone := *a
	return &clone, nil
}

func (r memActors) FindByPhone(_ context.Context, phone string) (*domain.Actor, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.actors {
		if a.PhoneNumber == phone {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrActorNotFound
}

func (r memActors) PhoneExists(ctx context.Context, phone string) (bool, error) {
	_, err := r.FindByPhone(ctx, phone)
	if errors.Is(err, domain.ErrActorNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r memActors) ListActiveByRole(_ context.Context, role domain.Role) ([]*domain.Actor, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.Actor
	for _, a := range r.db.actors {
		if a.Role == role && a.IsActive {
			clone := *a
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memActors) FindByIDs(_ context.Context, ids []domain.ActorID) (map[domain.ActorID]*domain.Actor, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make(map[domain.ActorID]*domain.Actor, len(ids))
	for _, id := range ids {
		if a, ok := r.db.actors[id]; ok {
			clone := *a
			out[id] = &clone
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Patients
// ---------------------------------------------------------------------------

type memPatients struct{ db *memDB }

func (r memPatients) Create(_ context.Context, p *domain.Patient) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p.ID = domain.PatientID(r.db.nextID())
	clone := *p
	r.db.patients[p.ID] = &clone
	return nil
}

func (r memPatients) FindByID(_ context.Context, id domain.PatientID) (*domain.Patient, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.patients[id]
	if !ok {
		return nil, domain.ErrPatientNotFound
	}
	clone := *p
	return &clone, nil
}

func (r memPatients) ListByPhone(_ context.Context, phone string) ([]*domain.Patient, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*domain.Patient
	if phone == "" {
		return out, nil
	}
	for _, p := range r.db.patients {
		if p.PhoneNumber == phone {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memPatients) FindByIDs(_ context.Context, ids []domain.PatientID) (map[domain.PatientID]*domain.Patient, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make(map[domain.PatientID]*domain.Patient, len(ids))
	for _, id := range ids {
		if p, ok := r.db.patients[id]; ok {
			clone := *p
			out[id] = &clone
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Examinations
// ---------------------------------------------------------------------------

type memExams struct{ db *memDB }

func (r memExams) Create(_ context.Context, e *domain.Examination) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e.ID = domain.ExaminationID(r.db.nextID())
	clone := *e
	r.db.exams[e.ID] = &clone
	return nil
}

func (r memExams) FindByID(_ context.Context, id domain.ExaminationID) (*domain.Examination, error) {
	if e := r.db.exam(id); e != nil {
		return e, nil
	}
	return nil, domain.ErrExaminationNotFound
}

func (r memExams) CompleteIfOpen(_ context.Context, id domain.ExaminationID, consultant domain.DoctorID, d domain.Diagnosis, at time.Time) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.completeCalls++
	e, ok := r.db.exams[id]
	if !ok || e.IsCompleted || !e.ConsultedBy(consultant) {
		return false, nil
	}
	e.Diagnosis = d
	e.IsCompleted = true
	e.UpdatedAt = at
	return true, nil
}

func (r memExams) list(match func(*domain.Examination) bool) []*domain.Examination {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*domain.Examination{}
	for _, e := range r.db.exams {
		if match(e) {
			clone := *e
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r memExams) ListByPatients(_ context.Context, ids []domain.PatientID) ([]*domain.Examination, error) {
	want := make(map[domain.PatientID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return r.list(func(e *domain.Examination) bool { return want[e.PatientID] }), nil
}

func (r memExams) ListByConsultant(_ context.Context, consultant domain.DoctorID) ([]*domain.Examination, error) {
	return r.list(func(e *domain.Examination) bool { return e.ConsultedBy(consultant) }), nil
}

func (r memExams) CountOpenByConsultant(_ context.Context, ids []domain.DoctorID) (map[domain.DoctorID]int, error) {
	out := make(map[domain.DoctorID]int)
	for _, id := range ids {
		id := id
		out[id] = len(r.list(func(e *domain.Examination) bool { return !e.IsCompleted && e.ConsultedBy(id) }))
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Medications
// ---------------------------------------------------------------------------

type memMeds struct{ db *memDB }

func (r memMeds) DeleteByExamination(_ context.Context, id domain.ExaminationID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.meds, id)
	return nil
}

func (r memMeds) InsertMany(_ context.Context, meds []domain.Medication) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.insertMedsErr != nil {
		return r.db.insertMedsErr
	}
	for _, m := range meds {
		m.ID = domain.MedicationID(r.db.nextID())
		r.db.meds[m.ExaminationID] = append(r.db.meds[m.ExaminationID], m)
	}
	return nil
}

func (r memMeds) ListByExaminations(_ context.Context, ids []domain.ExaminationID) (map[domain.ExaminationID][]domain.Medication, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make(map[domain.ExaminationID][]domain.Medication, len(ids))
	for _, id := range ids {
		if m, ok := r.db.meds[id]; ok {
			out[id] = append([]domain.Medication(nil), m...)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Sessions and counters
// ---------------------------------------------------------------------------

type memSessions struct {
	mu   sync.Mutex
	byID map[string]domain.ActorID
}

func newMemSessions() *memSessions {
	return &memSessions{byID: make(map[string]domain.ActorID)}
}

func (s *memSessions) Create(_ context.Context, sid string, actor domain.ActorID, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[sid] = actor
	return nil
}

func (s *memSessions) Lookup(_ context.Context, sid string) (domain.ActorID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byID[sid]
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	return id, nil
}

func (s *memSessions) Extend(_ context.Context, sid string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[sid]; !ok {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *memSessions) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, sid)
	return nil
}

func (s *memSessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

type memCounter struct {
	mu sync.Mutex
	n  map[string]int64
}

func (c *memCounter) Next(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n == nil {
		c.n = make(map[string]int64)
	}
	c.n[key]++
	return c.n[key], nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestGate() *AccessGate {
	g, err := NewAccessGate(DefaultPolicies, zerolog.Nop())
	if err != nil {
		panic(err)
	}
	return g
}

func mustOptometrist(a *domain.Actor) domain.Optometrist {
	o, ok := a.AsOptometrist()
	if !ok {
		panic("not an optometrist")
	}
	return o
}

func mustDoctor(a *domain.Actor) domain.Doctor {
	d, ok := a.AsDoctor()
	if !ok {
		panic("not a doctor")
	}
	return d
}

func mustPatient(a *domain.Actor) domain.PatientAccount {
	p, ok := a.AsPatient()
	if !ok {
		panic("not a patient")
	}
	return p
}
