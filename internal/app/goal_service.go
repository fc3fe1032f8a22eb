package app

import (
	"context"
	"math"

	"bodymetrics/internal/domain"
	"bodymetrics/internal/metrics"
)

// GoalService manages per-user goals.
type GoalService struct {
	repo    domain.GoalRepository
	metrics *metrics.Manager
}

// NewGoalService creates a GoalService. mm may be nil.
func NewGoalService(repo domain.GoalRepository, mm *metrics.Manager) *GoalService {
	return &GoalService{repo: repo, metrics: mm}
}

// List returns the goals matching f, each with its user and type expanded.
func (s *GoalService) List(ctx context.Context, f domain.GoalFilter) ([]domain.Goal, error) {
	return s.repo.ListGoals(ctx, f)
}

// Create validates and stores a goal. A second goal for the same user and
// measurement type fails with domain.ErrGoalExists.
func (s *GoalService) Create(ctx context.Context, g domain.Goal) (*domain.Goal, error) {
	if err := validateGoal(g); err != nil {
		return nil, err
	}
	g.ID = 0
	created, err := s.repo.CreateGoal(ctx, g)
	if err != nil {
		return nil, writeFailed(s.metrics, "goals", err)
	}
	return created, nil
}

// Update replaces the goal with id.
func (s *GoalService) Update(ctx context.Context, id int64, g domain.Goal) (*domain.Goal, error) {
	if err := validateGoal(g); err != nil {
		return nil, err
	}
	g.ID = id
	g.User, g.Type = nil, nil
	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return nil, writeFailed(s.metrics, "goals", err)
	}
	return &g, nil
}

// Delete removes the goal with id.
func (s *GoalService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteGoal(ctx, id); err != nil {
		return writeFailed(s.metrics, "goals", err)
	}
	return nil
}

func validateGoal(g domain.Goal) error {
	switch {
	case g.UserID == 0:
		return invalid("userId is required")
	case g.MeasurementTypeID == 0:
		return invalid("measurementTypeId is required")
	case !g.GoalType.Valid():
		return invalid("goalType must be %q or %q", domain.GoalIncrease, domain.GoalDecrease)
	case math.IsNaN(g.GoalValue) || math.IsInf(g.GoalValue, 0):
		return invalid("goalValue must be a number")
	}
	return nil
}
