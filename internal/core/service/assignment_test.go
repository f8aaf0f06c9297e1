package service

import (
	"context"
	"testing"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
)

func doctors(ids ...domain.ActorID) []*domain.Actor {
	out := make([]*domain.Actor, 0, len(ids))
	for _, id := range ids {
		out = append(out, &domain.Actor{ID: id, Role: domain.RoleDoctor, IsActive: true})
	}
	return out
}

func TestFirstActive_PicksLowestID(t *testing.T) {
	got, err := FirstActive{}.Pick(context.Background(), doctors(3, 5, 9))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 3 {
		t.Fatalf("expected doctor 3, got %d", got.ID)
	}
}

func TestStrategies_EmptyCandidates(t *testing.T) {
	for _, s := range []interface {
		Pick(context.Context, []*domain.Actor) (*domain.Actor, error)
	}{FirstActive{}, NewRoundRobin(&memCounter{}), NewLeastLoaded(memExams{newMemDB()})} {
		got, err := s.Pick(context.Background(), nil)
		if err != nil || got != nil {
			t.Fatalf("expected (nil, nil), got (%v, %v)", got, err)
		}
	}
}

func TestRoundRobin_Cycles(t *testing.T) {
	rr := NewRoundRobin(&memCounter{})
	cands := doctors(1, 2, 3)

	want := []domain.ActorID{1, 2, 3, 1, 2}
	for i, w := range want {
		got, err := rr.Pick(context.Background(), cands)
		if err != nil {
			t.Fatalf("pick %d: unexpected error: %v", i, err)
		}
		if got.ID != w {
			t.Fatalf("pick %d: expected doctor %d, got %d", i, w, got.ID)
		}
	}
}

func TestLeastLoaded_PicksFewestOpen(t *testing.T) {
	db := newMemDB()
	busy := domain.DoctorID(1)
	idle := domain.DoctorID(2)
	db.exams[10] = &domain.Examination{ID: 10, ConsultantID: &busy}
	db.exams[11] = &domain.Examination{ID: 11, ConsultantID: &busy}
	db.exams[12] = &domain.Examination{ID: 12, ConsultantID: &idle, IsCompleted: true}

	got, err := NewLeastLoaded(memExams{db}).Pick(context.Background(), doctors(1, 2, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Doctors 2 and 3 both have no open examinations.
	if got.ID != 2 {
		t.Fatalf("expected doctor 2, got %d", got.ID)
	}
}

func TestNewAssignmentStrategy(t *testing.T) {
	cases := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", StrategyFirstActive, false},
		{StrategyFirstActive, StrategyFirstActive, false},
		{StrategyRoundRobin, StrategyRoundRobin, false},
		{StrategyLeastLoaded, StrategyLeastLoaded, false},
		{"random", "", true},
	}
	for _, tc := range cases {
		s, err := NewAssignmentStrategy(tc.name, &memCounter{}, memExams{newMemDB()})
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.name, err)
		}
		if s.Name() != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.name, tc.want, s.Name())
		}
	}
}

func TestStrategies_AllBuild(t *testing.T) {
	for _, name := range Strategies {
		if !IsStrategy(name) {
			t.Fatalf("expected %q to be recognised", name)
		}
		s, err := NewAssignmentStrategy(name, &memCounter{}, memExams{newMemDB()})
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", name, err)
		}
		if s.Name() != name {
			t.Fatalf("expected %s, got %s", name, s.Name())
		}
	}
	if IsStrategy("random") {
		t.Fatal("unknown names must not be recognised")
	}
}

func TestCreateExamination_RoundRobinAcrossIntakes(t *testing.T) {
	f := newExamFixture(t)
	second := f.db.addActor("Dr C", "2000000002", domain.RoleDoctor)
	f.svc.assign = NewRoundRobin(&memCounter{})

	a := f.intake(t, newPatientInput("A", ""))
	b := f.intake(t, newPatientInput("B", ""))
	c := f.intake(t, newPatientInput("C", ""))

	got := []domain.ActorID{a.Consultant.ID, b.Consultant.ID, c.Consultant.ID}
	want := []domain.ActorID{f.doctor.ID, second.ID, f.doctor.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("intake %d: expected doctor %d, got %d", i, want[i], got[i])
		}
	}
}
