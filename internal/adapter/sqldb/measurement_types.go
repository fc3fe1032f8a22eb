package sqldb

import (
	"context"

	"bodymetrics/internal/domain"
)

func (d *DB) ListMeasurementTypes(ctx context.Context) ([]domain.MeasurementType, error) {
	types := []domain.MeasurementType{}
	err := d.db.SelectContext(ctx, &types, "SELECT id, name, unit, description FROM measurement_types ORDER BY id")
	return types, err
}

func (d *DB) CreateMeasurementType(ctx context.Context, t domain.MeasurementType) (*domain.MeasurementType, error) {
	err := d.db.QueryRowxContext(ctx,
		d.rebind("INSERT INTO measurement_types (name, unit, description) VALUES (?, ?, ?) RETURNING id"),
		t.Name, t.Unit, t.Description,
	).Scan(&t.ID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (d *DB) UpdateMeasurementType(ctx context.Context, t domain.MeasurementType) error {
	res, err := d.db.ExecContext(ctx,
		d.rebind("UPDATE measurement_types SET name = ?, unit = ?, description = ? WHERE id = ?"),
		t.Name, t.Unit, t.Description, t.ID,
	)
	if err != nil {
		return err
	}
	return mustAffect(res, "measurement type", t.ID)
}

func (d *DB) DeleteMeasurementType(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, d.rebind("DELETE FROM measurement_types WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return mustAffect(res, "measurement type", id)
}

// ListDisplayOrders returns the display orders of userID, or of every user
// when userID is 0.
func (d *DB) ListDisplayOrders(ctx context.Context, userID int64) ([]domain.DisplayOrder, error) {
	orders := []domain.DisplayOrder{}
	query := "SELECT user_id, measurement_type_id, position FROM measurement_type_orders"
	var args []any
	if userID != 0 {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY position, measurement_type_id"
	err := d.db.SelectContext(ctx, &orders, d.rebind(query), args...)
	return orders, err
}

// SetDisplayOrders replaces the display orders of userID in one transaction.
func (d *DB) SetDisplayOrders(ctx context.Context, userID int64, orders []domain.DisplayOrder) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, d.rebind("DELETE FROM measurement_type_orders WHERE user_id = ?"), userID); err != nil {
		return err
	}
	insert := d.rebind("INSERT INTO measurement_type_orders (user_id, measurement_type_id, position) VALUES (?, ?, ?)")
	for _, o := range orders {
		if _, err := tx.ExecContext(ctx, insert, userID, o.MeasurementTypeID, o.Position); err != nil {
			return err
		}
	}
	return tx.Commit()
}
