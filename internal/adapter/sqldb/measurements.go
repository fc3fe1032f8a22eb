package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bodymetrics/internal/domain"
)

const measurementColumns = "m.id, m.user_id, m.measurement_type_id, m.value, m.unit, m.measurement_date"

// measurementRow carries the optional type expansion of a measurement.
type measurementRow struct {
	domain.Measurement
	TypeName sql.NullString `db:"type_name"`
	TypeUnit sql.NullString `db:"type_unit"`
}

// ListMeasurements returns the measurements matching f. Rows sharing a date
// come back in id order for either direction.
func (d *DB) ListMeasurements(ctx context.Context, f domain.MeasurementFilter) ([]domain.Measurement, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != 0 {
		where = append(where, "m.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.MeasurementTypeID != 0 {
		where = append(where, "m.measurement_type_id = ?")
		args = append(args, f.MeasurementTypeID)
	}

	var q strings.Builder
	q.WriteString("SELECT " + measurementColumns)
	if f.ExpandType {
		q.WriteString(", t.name AS type_name, t.unit AS type_unit FROM measurements m" +
			" LEFT JOIN measurement_types t ON t.id = m.measurement_type_id")
	} else {
		q.WriteString(" FROM measurements m")
	}
	if len(where) > 0 {
		q.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	switch f.Order {
	case domain.SortAsc:
		q.WriteString(" ORDER BY m.measurement_date ASC, m.id ASC")
	case domain.SortDesc:
		q.WriteString(" ORDER BY m.measurement_date DESC, m.id ASC")
	default:
		q.WriteString(" ORDER BY m.id")
	}

	out := []domain.Measurement{}
	if !f.ExpandType {
		err := d.db.SelectContext(ctx, &out, d.rebind(q.String()), args...)
		return out, err
	}

	var rows []measurementRow
	if err := d.db.SelectContext(ctx, &rows, d.rebind(q.String()), args...); err != nil {
		return nil, err
	}
	for _, r := range rows {
		m := r.Measurement
		if r.TypeName.Valid {
			m.Type = &domain.TypeRef{Name: r.TypeName.String, Unit: r.TypeUnit.String}
		}
		out = append(out, m)
	}
	return out, nil
}

// GetMeasurement retrieves a measurement by ID.
func (d *DB) GetMeasurement(ctx context.Context, id int64) (*domain.Measurement, error) {
	var m domain.Measurement
	err := d.db.GetContext(ctx, &m, d.rebind("SELECT "+measurementColumns+" FROM measurements m WHERE m.id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("measurement %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMeasurement inserts a measurement, keeping only the date part.
func (d *DB) CreateMeasurement(ctx context.Context, m domain.Measurement) (*domain.Measurement, error) {
	m.MeasurementDate = domain.TruncateDate(m.MeasurementDate)
	m.Type = nil
	err := d.db.QueryRowxContext(ctx,
		d.rebind("INSERT INTO measurements (user_id, measurement_type_id, value, unit, measurement_date) VALUES (?, ?, ?, ?, ?) RETURNING id"),
		m.UserID, m.MeasurementTypeID, m.Value, m.Unit, m.MeasurementDate,
	).Scan(&m.ID)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMeasurement replaces every column of a measurement.
func (d *DB) UpdateMeasurement(ctx context.Context, m domain.Measurement) error {
	res, err := d.db.ExecContext(ctx,
		d.rebind("UPDATE measurements SET user_id = ?, measurement_type_id = ?, value = ?, unit = ?, measurement_date = ? WHERE id = ?"),
		m.UserID, m.MeasurementTypeID, m.Value, m.Unit, domain.TruncateDate(m.MeasurementDate), m.ID,
	)
	if err != nil {
		return err
	}
	return mustAffect(res, "measurement", m.ID)
}

// DeleteMeasurement removes a measurement by ID.
func (d *DB) DeleteMeasurement(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, d.rebind("DELETE FROM measurements WHERE id = ?"), id)
	if err != nil {
		return err
	}
	return mustAffect(res, "measurement", id)
}
