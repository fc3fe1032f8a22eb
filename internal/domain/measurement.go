package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire and display format of a measurement date.
const DateLayout = "2006-01-02"

// Measurement is a single sample of a measurement type for a user.
// MeasurementDate has day precision; several measurements may share a date.
type Measurement struct {
	ID                int64     `json:"id" db:"id"`
	UserID            int64     `json:"userId" db:"user_id"`
	MeasurementTypeID int64     `json:"measurementTypeId" db:"measurement_type_id"`
	Value             float64   `json:"value" db:"value"`
	MeasurementDate   time.Time `json:"measurementDate" db:"measurement_date"`
	Unit              string    `json:"unit" db:"unit"`

	// Type is only populated when the read asked for the type expansion.
	Type *TypeRef `json:"measurementType,omitempty" db:"-"`
}

// Day returns the measurement date formatted with DateLayout.
func (m Measurement) Day() string {
	return m.MeasurementDate.Format(DateLayout)
}

// MarshalJSON writes MeasurementDate as a DateLayout string.
func (m Measurement) MarshalJSON() ([]byte, error) {
	type plain Measurement
	return json.Marshal(struct {
		plain
		MeasurementDate string `json:"measurementDate"`
	}{plain(m), m.Day()})
}

// ParseDate parses a DateLayout string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalid, s)
	}
	return t, nil
}

// TruncateDate drops the time of day, keeping the calendar date of t.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SortOrder is the direction measurements are ordered by date.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// MeasurementFilter narrows a measurement read. Zero IDs match everything.
type MeasurementFilter struct {
	UserID            int64
	MeasurementTypeID int64
	Order             SortOrder
	// ExpandType embeds the owning type's (name, unit) into each row.
	ExpandType bool
}

// MeasurementRepository is the port for measurement persistence.
type MeasurementRepository interface {
	ListMeasurements(ctx context.Context, f MeasurementFilter) ([]Measurement, error)
	GetMeasurement(ctx context.Context, id int64) (*Measurement, error)
	CreateMeasurement(ctx context.Context, m Measurement) (*Measurement, error)
	UpdateMeasurement(ctx context.Context, m Measurement) error
	DeleteMeasurement(ctx context.Context, id int64) error
}
