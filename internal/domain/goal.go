package domain

import "context"

// GoalType is the direction a goal wants the measurement to move in.
type GoalType string

const (
	GoalIncrease GoalType = "increase"
	GoalDecrease GoalType = "decrease"
)

// Valid reports whether t is a known goal direction.
func (t GoalType) Valid() bool {
	return t == GoalIncrease || t == GoalDecrease
}

// Goal is a target value for one user's measurement type.
// At most one goal exists per (user, measurement type).
type Goal struct {
	ID                int64    `json:"id" db:"id"`
	UserID            int64    `json:"userId" db:"user_id"`
	MeasurementTypeID int64    `json:"measurementTypeId" db:"measurement_type_id"`
	GoalValue         float64  `json:"goalValue" db:"goal_value"`
	GoalType          GoalType `json:"goalType" db:"goal_type"`

	// User and Type are only populated by expanded listings.
	User *UserRef `json:"user,omitempty" db:"-"`
	Type *TypeRef `json:"measurementType,omitempty" db:"-"`
}

// UserRef is the (name, email) expansion of a user embedded in goal rows.
type UserRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GoalFilter narrows a goal read. Zero IDs match everything.
type GoalFilter struct {
	UserID            int64
	MeasurementTypeID int64
}

// GoalRepository is the port for goal persistence.
type GoalRepository interface {
	ListGoals(ctx context.Context, f GoalFilter) ([]Goal, error)
	GetGoal(ctx context.Context, id int64) (*Goal, error)
	// CreateGoal fails with ErrGoalExists when the user already has a goal
	// for the measurement type.
	CreateGoal(ctx context.Context, g Goal) (*Goal, error)
	UpdateGoal(ctx context.Context, g Goal) error
	DeleteGoal(ctx context.Context, id int64) error
}
