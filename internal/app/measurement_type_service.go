package app

import (
	"context"
	"strings"

	"bodymetrics/internal/domain"
	"bodymetrics/internal/metrics"
)

// MeasurementTypeService manages measurement types and the per-user order
// they are displayed in.
type MeasurementTypeService struct {
	repo    domain.MeasurementTypeRepository
	users   domain.UserRepository
	metrics *metrics.Manager
}

// NewMeasurementTypeService creates a MeasurementTypeService. mm may be nil.
func NewMeasurementTypeService(repo domain.MeasurementTypeRepository, users domain.UserRepository, mm *metrics.Manager) *MeasurementTypeService {
	return &MeasurementTypeService{repo: repo, users: users, metrics: mm}
}

// List returns every measurement type.
func (s *MeasurementTypeService) List(ctx context.Context) ([]domain.MeasurementType, error) {
	return s.repo.ListMeasurementTypes(ctx)
}

// Create validates and stores a new measurement type.
func (s *MeasurementTypeService) Create(ctx context.Context, t domain.MeasurementType) (*domain.MeasurementType, error) {
	t = normalizeType(t)
	if err := validateType(t); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateMeasurementType(ctx, t)
	if err != nil {
		return nil, writeFailed(s.metrics, "measurement_types", err)
	}
	return created, nil
}

// Update replaces name, unit and description of the type with id.
func (s *MeasurementTypeService) Update(ctx context.Context, id int64, t domain.MeasurementType) (*domain.MeasurementType, error) {
	t = normalizeType(t)
	t.ID = id
	if err := validateType(t); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateMeasurementType(ctx, t); err != nil {
		return nil, writeFailed(s.metrics, "measurement_types", err)
	}
	return &t, nil
}

// Delete removes a measurement type together with its measurements and goals.
func (s *MeasurementTypeService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteMeasurementType(ctx, id); err != nil {
		return writeFailed(s.metrics, "measurement_types", err)
	}
	return nil
}

// Orders returns the display order entries of a user.
func (s *MeasurementTypeService) Orders(ctx context.Context, userID int64) ([]domain.DisplayOrder, error) {
	return s.repo.ListDisplayOrders(ctx, userID)
}

// SetOrder stores typeIDs as the user's display order: the first id gets
// position 0. Types left out sort after the listed ones.
func (s *MeasurementTypeService) SetOrder(ctx context.Context, userID int64, typeIDs []int64) ([]domain.DisplayOrder, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	types, err := s.repo.ListMeasurementTypes(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[int64]bool, len(types))
	for _, t := range types {
		known[t.ID] = true
	}

	seen := make(map[int64]bool, len(typeIDs))
	orders := make([]domain.DisplayOrder, 0, len(typeIDs))
	for i, id := range typeIDs {
		if !known[id] {
			return nil, invalid("unknown measurement type %d", id)
		}
		if seen[id] {
			return nil, invalid("measurement type %d listed twice", id)
		}
		seen[id] = true
		orders = append(orders, domain.DisplayOrder{UserID: userID, MeasurementTypeID: id, Position: i})
	}

	if err := s.repo.SetDisplayOrders(ctx, userID, orders); err != nil {
		return nil, writeFailed(s.metrics, "measurement_type_orders", err)
	}
	return orders, nil
}

func normalizeType(t domain.MeasurementType) domain.MeasurementType {
	t.Name = strings.TrimSpace(t.Name)
	t.Unit = strings.TrimSpace(t.Unit)
	t.Description = strings.TrimSpace(t.Description)
	return t
}

func validateType(t domain.MeasurementType) error {
	if blank(t.Name) {
		return invalid("name is required")
	}
	if blank(t.Unit) {
		return invalid("unit is required")
	}
	return nil
}
