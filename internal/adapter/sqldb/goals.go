package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bodymetrics/internal/domain"
)

// goalRow carries the user and type expansion of a goal.
type goalRow struct {
	domain.Goal
	UserName  sql.NullString `db:"user_name"`
	UserEmail sql.NullString `db:"user_email"`
	TypeName  sql.NullString `db:"type_name"`
	TypeUnit  sql.NullString `db:"type_unit"`
}

// ListGoals returns the goals matching f with the owning user and type
// expanded, in id order.
func (d *DB) ListGoals(ctx context.Context, f domain.GoalFilter) ([]domain.Goal, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != 0 {
		where = append(where, "g.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.MeasurementTypeID != 0 {
		where = append(where, "g.measurement_type_id = ?")
		args = append(args, f.MeasurementTypeID)
	}

	query := `SELECT g.id, g.user_id, g.measurement_type_id, g.goal_value, g.goal_type,
	          u.name AS user_name, u.email AS user_email, t.name AS type_name, t.unit AS type_unit
	          FROM goals g
	          LEFT JOIN users u ON u.id = g.user_id
	          LEFT JOIN measurement_types t ON t.id = g.measurement_type_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY g.id"

	var rows []goalRow
	if err := d.db.SelectContext(ctx, &rows, d.rebind(query), args...); err != nil {
		return nil, err
	}
	goals := make([]domain.Goal, 0, len(rows))
	for _, r := range rows {
		g := r.Goal
		if r.UserName.Valid {
			g.User = &domain.UserRef{Name: r.UserName.String, Email: r.UserEmail.String}
		}
		if r.TypeName.Valid {
			g.Type = &domain.TypeRef{Name: r.TypeName.String, Unit: r.TypeUnit.String}
		}
		goals = append(goals, g)
	}
	return goals, nil
}

// GetGoal retrieves a goal by ID.
func (d *DB) GetGoal(ctx context.Context, id int64) (*domain.Goal, error) {
	var g domain.Goal
	err := d.db.GetContext(ctx, &g,
		d.rebind("SELECT id, user_id, measurement_type_id, goal_value, goal_type FROM goals WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGoal inserts a goal. The unique index on (user_id,
// measurement_type_id) turns a second goal into domain.ErrGoalExists.
func (d *DB) CreateGoal(ctx context.Context, g domain.Goal) (*domain.Goal, error) {
	g.User, g.Type = nil, nil
	err := d.db.QueryRowxContext(ctx,
		d.rebind("INSERT INTO goals (user_id, measurement_type_id, goal_value, goal_type) VALUES (?, ?, ?, ?) RETURNING id"),
		g.UserID, g.MeasurementTypeID, g.GoalValue, g.GoalType,
	).Scan(&g.ID)
	if isUniqueViolation(err) {
		return nil, domain.ErrGoalExists
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// UpdateGoal replaces every column of a goal.
func (d *DB) UpdateGoal(ctx context.Context, g domain.Goal) error {
	res, err := d.db.ExecContext(ctx,
		d.rebind("UPDATE goals SET user_id = ?, measurement_type_id = ?, goal_value = ?, goal_type = ? WHERE id = ?"),
		g.UserID, g.MeasurementTypeID, g.GoalValue, g.GoalType, g.ID,
	)
	if isUniqueViolation(err) {
		return domain.ErrGoalExists
	}
	if err != nil {
		return err
	}
	return mustAffect(res, "goal", g.ID)
}

// DeleteGoal removes a goal by ID.
func (d *DB) DeleteGoal(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, d.rebind("DELETE FROM goals WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return mustAffect(res, "goal", id)
}
