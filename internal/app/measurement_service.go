package app

import (
	"context"
	"math"
	"strings"
	"time"

	"bodymetrics/internal/domain"
	"bodymetrics/internal/metrics"
)

// MeasurementInput is a new measurement as entered by the user. Unit
// defaults to the type's unit and Date to today.
type MeasurementInput struct {
	UserID            int64    `json:"userId"`
	MeasurementTypeID int64    `json:"measurementTypeId"`
	Value             *float64 `json:"value"`
	Unit              string   `json:"unit"`
	Date              string   `json:"measurementDate"`
}

// MeasurementPatch changes the non-nil fields of a measurement.
type MeasurementPatch struct {
	UserID            *int64   `json:"userId"`
	MeasurementTypeID *int64   `json:"measurementTypeId"`
	Value             *float64 `json:"value"`
	Unit              *string  `json:"unit"`
	Date              *string  `json:"measurementDate"`
}

// MeasurementService encapsulates measurement recording use cases.
type MeasurementService struct {
	repo    domain.MeasurementRepository
	types   domain.MeasurementTypeRepository
	users   domain.UserRepository
	metrics *metrics.Manager
}

// NewMeasurementService creates a MeasurementService. mm may be nil.
func NewMeasurementService(repo domain.MeasurementRepository, types domain.MeasurementTypeRepository, users domain.UserRepository, mm *metrics.Manager) *MeasurementService {
	return &MeasurementService{repo: repo, types: types, users: users, metrics: mm}
}

// List returns the measurements matching f.
func (s *MeasurementService) List(ctx context.Context, f domain.MeasurementFilter) ([]domain.Measurement, error) {
	return s.repo.ListMeasurements(ctx, f)
}

// Create validates and stores a new measurement.
func (s *MeasurementService) Create(ctx context.Context, in MeasurementInput) (*domain.Measurement, error) {
	if in.Value == nil {
		return nil, invalid("value is required")
	}
	if err := validateValue(*in.Value); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUser(ctx, in.UserID); err != nil {
		return nil, err
	}
	t, err := s.lookupType(ctx, in.MeasurementTypeID)
	if err != nil {
		return nil, err
	}

	m := domain.Measurement{
		UserID:            in.UserID,
		MeasurementTypeID: t.ID,
		Value:             *in.Value,
		Unit:              strings.TrimSpace(in.Unit),
		MeasurementDate:   domain.TruncateDate(time.Now()),
	}
	if m.Unit == "" {
		m.Unit = t.Unit
	}
	if in.Date != "" {
		if m.MeasurementDate, err = domain.ParseDate(in.Date); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.CreateMeasurement(ctx, m)
	if err != nil {
		return nil, writeFailed(s.metrics, "measurements", err)
	}
	return created, nil
}

// Update applies p to the measurement with id and returns the result.
func (s *MeasurementService) Update(ctx context.Context, id int64, p MeasurementPatch) (*domain.Measurement, error) {
	m, err := s.repo.GetMeasurement(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Value != nil {
		if err := validateValue(*p.Value); err != nil {
			return nil, err
		}
		m.Value = *p.Value
	}
	if p.Date != nil {
		if m.MeasurementDate, err = domain.ParseDate(*p.Date); err != nil {
			return nil, err
		}
	}
	if p.UserID != nil {
		if _, err := s.users.GetUser(ctx, *p.UserID); err != nil {
			return nil, err
		}
		m.UserID = *p.UserID
	}
	if p.MeasurementTypeID != nil {
		if _, err := s.lookupType(ctx, *p.MeasurementTypeID); err != nil {
			return nil, err
		}
		m.MeasurementTypeID = *p.MeasurementTypeID
	}
	if p.Unit != nil {
		if blank(*p.Unit) {
			return nil, invalid("unit must not be empty")
		}
		m.Unit = strings.TrimSpace(*p.Unit)
	}

	if err := s.repo.UpdateMeasurement(ctx, *m); err != nil {
		return nil, writeFailed(s.metrics, "measurements", err)
	}
	return m, nil
}

// Delete removes the measurement with id.
func (s *MeasurementService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteMeasurement(ctx, id); err != nil {
		return writeFailed(s.metrics, "measurements", err)
	}
	return nil
}

func (s *MeasurementService) lookupType(ctx context.Context, id int64) (*domain.MeasurementType, error) {
	types, err := s.types.ListMeasurementTypes(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, invalid("unknown measurement type %d", id)
}

func validateValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid("value must be a finite number")
	}
	return nil
}
