// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bodymetrics/internal/domain"
)

// DB implements an in-memory database storage. Rows are kept in insertion
// order, which is also the order reads return them in before sorting.
type DB struct {
	mu           sync.Mutex
	users        []domain.User
	types        []domain.MeasurementType
	orders       []domain.DisplayOrder
	measurements []domain.Measurement
	goals        []domain.Goal

	userIDCounter        int64
	typeIDCounter        int64
	measurementIDCounter int64
	goalIDCounter        int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.MeasurementTypeRepository = (*DB)(nil)
var _ domain.MeasurementRepository = (*DB)(nil)
var _ domain.GoalRepository = (*DB)(nil)

// Close is a no-op.
func (db *DB) Close() error {
	return nil
}

// --- UserRepository ---

// ListUsers returns every user.
func (db *DB) ListUsers(ctx context.Context) ([]domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.User, len(db.users))
	copy(result, db.users)
	return result, nil
}

// GetUser retrieves a user by ID.
func (db *DB) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
}

// CreateUser creates a new user.
func (db *DB) CreateUser(ctx context.Context, name, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.userIDCounter++
	u := domain.User{
		ID:        db.userIDCounter,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return &u, nil
}

// UpdateUser replaces the name and email of a user.
func (db *DB) UpdateUser(ctx context.Context, u domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.users {
		if db.users[i].ID == u.ID {
			db.users[i].Name = u.Name
			db.users[i].Email = u.Email
			return nil
		}
	}
	return fmt.Errorf("user %d: %w", u.ID, domain.ErrNotFound)
}

// DeleteUser removes a user together with its measurements, goals and
// display orders.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := len(db.users)
	db.users = filter(db.users, func(u domain.User) bool { return u.ID != id })
	if len(db.users) == n {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	db.measurements = filter(db.measurements, func(m domain.Measurement) bool { return m.UserID != id })
	db.goals = filter(db.goals, func(g domain.Goal) bool { return g.UserID != id })
	db.orders = filter(db.orders, func(o domain.DisplayOrder) bool { return o.UserID != id })
	return nil
}

// --- MeasurementTypeRepository ---

// ListMeasurementTypes returns every measurement type.
func (db *DB) ListMeasurementTypes(ctx context.Context) ([]domain.MeasurementType, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.MeasurementType, len(db.types))
	copy(result, db.types)
	return result, nil
}

// CreateMeasurementType creates a new measurement type.
func (db *DB) CreateMeasurementType(ctx context.Context, t domain.MeasurementType) (*domain.MeasurementType, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.typeIDCounter++
	t.ID = db.typeIDCounter
	db.types = append(db.types, t)
	return &t, nil
}

// UpdateMeasurementType replaces name, unit and description of a type.
func (db *DB) UpdateMeasurementType(ctx context.Context, t domain.MeasurementType) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.types {
		if db.types[i].ID == t.ID {
			db.types[i] = t
			return nil
		}
	}
	return fmt.Errorf("measurement type %d: %w", t.ID, domain.ErrNotFound)
}

// DeleteMeasurementType removes a type together with its measurements, goals
// and display orders.
func (db *DB) DeleteMeasurementType(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := len(db.types)
	db.types = filter(db.types, func(t domain.MeasurementType) bool { return t.ID != id })
	if len(db.types) == n {
		return fmt.Errorf("measurement type %d: %w", id, domain.ErrNotFound)
	}
	db.measurements = filter(db.measurements, func(m domain.Measurement) bool { return m.MeasurementTypeID != id })
	db.goals = filter(db.goals, func(g domain.Goal) bool { return g.MeasurementTypeID != id })
	db.orders = filter(db.orders, func(o domain.DisplayOrder) bool { return o.MeasurementTypeID != id })
	return nil
}

// ListDisplayOrders returns the display orders of a user, or all of them
// when userID is 0.
func (db *DB) ListDisplayOrders(ctx context.Context, userID int64) ([]domain.DisplayOrder, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := filter(db.orders, func(o domain.DisplayOrder) bool { return userID == 0 || o.UserID == userID })
	sort.SliceStable(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

// SetDisplayOrders replaces the display orders of a user.
func (db *DB) SetDisplayOrders(ctx context.Context, userID int64, orders []domain.DisplayOrder) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.orders = filter(db.orders, func(o domain.DisplayOrder) bool { return o.UserID != userID })
	for _, o := range orders {
		o.UserID = userID
		db.orders = append(db.orders, o)
	}
	return nil
}

// --- MeasurementRepository ---

// ListMeasurements returns the measurements matching f.
func (db *DB) ListMeasurements(ctx context.Context, f domain.MeasurementFilter) ([]domain.Measurement, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := filter(db.measurements, func(m domain.Measurement) bool {
		return (f.UserID == 0 || m.UserID == f.UserID) &&
			(f.MeasurementTypeID == 0 || m.MeasurementTypeID == f.MeasurementTypeID)
	})

	switch f.Order {
	case domain.SortAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].MeasurementDate.Before(result[j].MeasurementDate)
		})
	case domain.SortDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].MeasurementDate.After(result[j].MeasurementDate)
		})
	}

	if f.ExpandType {
		for i := range result {
			for _, t := range db.types {
				if t.ID == result[i].MeasurementTypeID {
					result[i].Type = &domain.TypeRef{Name: t.Name, Unit: t.Unit}
					break
				}
			}
		}
	}
	return result, nil
}

// GetMeasurement retrieves a measurement by ID.
func (db *DB) GetMeasurement(ctx context.Context, id int64) (*domain.Measurement, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, m := range db.measurements {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, fmt.Errorf("measurement %d: %w", id, domain.ErrNotFound)
}

// CreateMeasurement stores a new measurement.
func (db *DB) CreateMeasurement(ctx context.Context, m domain.Measurement) (*domain.Measurement, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.measurementIDCounter++
	m.ID = db.measurementIDCounter
	m.MeasurementDate = domain.TruncateDate(m.MeasurementDate)
	m.Type = nil
	db.measurements = append(db.measurements, m)
	return &m, nil
}

// UpdateMeasurement replaces a measurement.
func (db *DB) UpdateMeasurement(ctx context.Context, m domain.Measurement) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.measurements {
		if db.measurements[i].ID == m.ID {
			m.MeasurementDate = domain.TruncateDate(m.MeasurementDate)
			m.Type = nil
			db.measurements[i] = m
			return nil
		}
	}
	return fmt.Errorf("measurement %d: %w", m.ID, domain.ErrNotFound)
}

// DeleteMeasurement removes a measurement by ID.
func (db *DB) DeleteMeasurement(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := len(db.measurements)
	db.measurements = filter(db.measurements, func(m domain.Measurement) bool { return m.ID != id })
	if len(db.measurements) == n {
		return fmt.Errorf("measurement %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// --- GoalRepository ---

// ListGoals returns the goals matching f, with user and type expanded.
func (db *DB) ListGoals(ctx context.Context, f domain.GoalFilter) ([]domain.Goal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := filter(db.goals, func(g domain.Goal) bool {
		return (f.UserID == 0 || g.UserID == f.UserID) &&
			(f.MeasurementTypeID == 0 || g.MeasurementTypeID == f.MeasurementTypeID)
	})
	for i := range result {
		for _, u := range db.users {
			if u.ID == result[i].UserID {
				result[i].User = &domain.UserRef{Name: u.Name, Email: u.Email}
				break
			}
		}
		for _, t := range db.types {
			if t.ID == result[i].MeasurementTypeID {
				result[i].Type = &domain.TypeRef{Name: t.Name, Unit: t.Unit}
				break
			}
		}
	}
	return result, nil
}

// GetGoal retrieves a goal by ID.
func (db *DB) GetGoal(ctx context.Context, id int64) (*domain.Goal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, g := range db.goals {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, fmt.Errorf("goal %d: %w", id, domain.ErrNotFound)
}

// CreateGoal stores a new goal, refusing a second goal for the same
// (user, measurement type).
func (db *DB) CreateGoal(ctx context.Context, g domain.Goal) (*domain.Goal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.goalTaken(g, 0) {
		return nil, domain.ErrGoalExists
	}
	db.goalIDCounter++
	g.ID = db.goalIDCounter
	g.User, g.Type = nil, nil
	db.goals = append(db.goals, g)
	return &g, nil
}

// UpdateGoal replaces a goal.
func (db *DB) UpdateGoal(ctx context.Context, g domain.Goal) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.goalTaken(g, g.ID) {
		return domain.ErrGoalExists
	}
	for i := range db.goals {
		if db.goals[i].ID == g.ID {
			g.User, g.Type = nil, nil
			db.goals[i] = g
			return nil
		}
	}
	return fmt.Errorf("goal %d: %w", g.ID, domain.ErrNotFound)
}

// DeleteGoal removes a goal by ID.
func (db *DB) DeleteGoal(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := len(db.goals)
	db.goals = filter(db.goals, func(g domain.Goal) bool { return g.ID != id })
	if len(db.goals) == n {
		return fmt.Errorf("goal %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// goalTaken reports whether another goal than exceptID already covers g's
// (user, measurement type). Callers hold db.mu.
func (db *DB) goalTaken(g domain.Goal, exceptID int64) bool {
	for _, existing := range db.goals {
		if existing.ID != exceptID &&
			existing.UserID == g.UserID &&
			existing.MeasurementTypeID == g.MeasurementTypeID {
			return true
		}
	}
	return false
}

// filter returns a new slice with the elements of in that keep accepts.
func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
