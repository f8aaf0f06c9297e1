package service

import (
	"context"
	"fmt"

	"github.com/eyeclinic/clinic-system/internal/core/domain"
	"github.com/eyeclinic/clinic-system/internal/core/ports"
)

const (
	StrategyFirstActive = "first_active"
	StrategyRoundRobin  = "round_robin"
	StrategyLeastLoaded = "least_loaded"

	roundRobinKey = "assign:round_robin"
)

// Strategies lists every name NewAssignmentStrategy accepts.
var Strategies = []string{StrategyFirstActive, StrategyRoundRobin, StrategyLeastLoaded}

func IsStrategy(name string) bool {
	for _, s := range Strategies {
		if s == name {
			return true
		}
	}
	return false
}

// NewAssignmentStrategy builds the strategy named in configuration.
func NewAssignmentStrategy(name string, counter ports.Counter, exams ports.ExaminationRepository) (ports.AssignmentStrategy, error) {
	switch name {
	case "", StrategyFirstActive:
		return FirstActive{}, nil
	case StrategyRoundRobin:
		if counter == nil {
			return nil, fmt.Errorf("assignment: %s needs a counter", name)
		}
		return &RoundRobin{counter: counter}, nil
	case StrategyLeastLoaded:
		return &LeastLoaded{exams: exams}, nil
	}
	return nil, fmt.Errorf("assignment: unknown strategy %q", name)
}

// FirstActive picks the active doctor with the lowest id.
type FirstActive struct{}

func (FirstActive) Name() string { return StrategyFirstActive }

func (FirstActive) Pick(_ context.Context, candidates []*domain.Actor) (*domain.Actor, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	return candidates[0], nil
}

// RoundRobin walks the candidate list with a shared counter so that every
// API instance continues the same rotation.
type RoundRobin struct {
	counter ports.Counter
}

func NewRoundRobin(counter ports.Counter) *RoundRobin {
	return &RoundRobin{counter: counter}
}

func (*RoundRobin) Name() string { return StrategyRoundRobin }

func (r *RoundRobin) Pick(ctx context.Context, candidates []*domain.Actor) (*domain.Actor, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	n, err := r.counter.Next(ctx, roundRobinKey)
	if err != nil {
		return nil, fmt.Errorf("round robin: %w", err)
	}
	// Counters start at 1.
	idx := (n - 1) % int64(len(candidates))
	if idx < 0 {
		idx += int64(len(candidates))
	}
	return candidates[idx], nil
}

// LeastLoaded picks the doctor with the fewest open examinations, lowest id
// on ties.
type LeastLoaded struct {
	exams ports.ExaminationRepository
}

func NewLeastLoaded(exams ports.ExaminationRepository) *LeastLoaded {
	return &LeastLoaded{exams: exams}
}

func (*LeastLoaded) Name() string { return StrategyLeastLoaded }

func (l *LeastLoaded) Pick(ctx context.Context, candidates []*domain.Actor) (*domain.Actor, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	ids := make([]domain.DoctorID, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, domain.DoctorID(c.ID))
	}
	open, err := l.exams.CountOpenByConsultant(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("least loaded: %w", err)
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		load, bestLoad := open[domain.DoctorID(c.ID)], open[domain.DoctorID(best.ID)]
		if load < bestLoad || (load == bestLoad && c.ID < best.ID) {
			best = c
		}
	}
	return best, nil
}
