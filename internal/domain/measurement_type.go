package domain

import "context"

// MeasurementType is a tracked metric, e.g. "Weight" in "kg".
type MeasurementType struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Unit        string `json:"unit" db:"unit"`
	Description string `json:"description" db:"description"`
}

// DisplayOrder positions a measurement type in one user's progress view.
// Types without an entry for the user sort after all positioned ones.
type DisplayOrder struct {
	UserID            int64 `json:"userId" db:"user_id"`
	MeasurementTypeID int64 `json:"measurementTypeId" db:"measurement_type_id"`
	Position          int   `json:"position" db:"position"`
}

// TypeRef is the (name, unit) expansion of a measurement type embedded in
// measurement and goal rows.
type TypeRef struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// MeasurementTypeRepository defines the port for measurement type persistence.
type MeasurementTypeRepository interface {
	ListMeasurementTypes(ctx context.Context) ([]MeasurementType, error)
	CreateMeasurementType(ctx context.Context, t MeasurementType) (*MeasurementType, error)
	UpdateMeasurementType(ctx context.Context, t MeasurementType) error
	DeleteMeasurementType(ctx context.Context, id int64) error

	// ListDisplayOrders returns the ordering entries of one user, or of every
	// user when userID is 0.
	ListDisplayOrders(ctx context.Context, userID int64) ([]DisplayOrder, error)
	// SetDisplayOrders replaces all ordering entries of a user.
	SetDisplayOrders(ctx context.Context, userID int64, orders []DisplayOrder) error
}
