// Package fetch reads whole tables from the backend for the progress views.
// Single reads never fail: errors are logged and turned into empty lists.
// Grouped loads run their reads concurrently and fail as a unit.
package fetch

import (
	"context"
	"fmt"

	"bodymetrics/internal/domain"
	"bodymetrics/internal/metrics"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Store is the read side of the backend.
type Store interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListMeasurementTypes(ctx context.Context) ([]domain.MeasurementType, error)
	ListDisplayOrders(ctx context.Context, userID int64) ([]domain.DisplayOrder, error)
	ListMeasurements(ctx context.Context, f domain.MeasurementFilter) ([]domain.Measurement, error)
	ListGoals(ctx context.Context, f domain.GoalFilter) ([]domain.Goal, error)
}

type Fetcher struct {
	store   Store
	metrics *metrics.Manager
}

// New creates a Fetcher. metricsManager may be nil.
func New(store Store, metricsManager *metrics.Manager) *Fetcher {
	return &Fetcher{store: store, metrics: metricsManager}
}

// Users returns every user, or an empty list if the read failed.
func (f *Fetcher) Users(ctx context.Context) []domain.User {
	users, err := f.store.ListUsers(ctx)
	if err != nil {
		f.failed("users", err)
		return []domain.User{}
	}
	return users
}

// MeasurementTypes returns every measurement type, or an empty list if the
// read failed.
func (f *Fetcher) MeasurementTypes(ctx context.Context) []domain.MeasurementType {
	types, err := f.store.ListMeasurementTypes(ctx)
	if err != nil {
		f.failed("measurement_types", err)
		return []domain.MeasurementType{}
	}
	return types
}

// Measurements returns the measurements matching filter, or an empty list if
// the read failed.
func (f *Fetcher) Measurements(ctx context.Context, filter domain.MeasurementFilter) []domain.Measurement {
	ms, err := f.store.ListMeasurements(ctx, filter)
	if err != nil {
		f.failed("measurements", err)
		return []domain.Measurement{}
	}
	return ms
}

// Goals returns the goals matching filter, or an empty list if the read failed.
func (f *Fetcher) Goals(ctx context.Context, filter domain.GoalFilter) []domain.Goal {
	goals, err := f.store.ListGoals(ctx, filter)
	if err != nil {
		f.failed("goals", err)
		return []domain.Goal{}
	}
	return goals
}

// Load reads everything the progress view of userID needs. Users, types and
// display orders are read together first; userID 0 then selects the first
// user, whose goals and measurements are read together next. Any failed read
// fails the whole load and no partial snapshot is returned.
func (f *Fetcher) Load(ctx context.Context, userID int64) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Users, err = f.store.ListUsers(gctx)
		return f.check("users", err)
	})
	g.Go(func() (err error) {
		snap.Types, err = f.store.ListMeasurementTypes(gctx)
		return f.check("measurement_types", err)
	})
	g.Go(func() (err error) {
		snap.Orders, err = f.store.ListDisplayOrders(gctx, 0)
		return f.check("measurement_type_orders", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if userID == 0 && len(snap.Users) > 0 {
		userID = snap.Users[0].ID
	}
	snap.UserID = userID
	if userID == 0 {
		return snap, nil
	}

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Goals, err = f.store.ListGoals(gctx, domain.GoalFilter{UserID: userID})
		return f.check("goals", err)
	})
	g.Go(func() (err error) {
		snap.Measurements, err = f.store.ListMeasurements(gctx, domain.MeasurementFilter{
			UserID:     userID,
			Order:      domain.SortDesc,
			ExpandType: true,
		})
		return f.check("measurements", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// LoadAll reads users, types and every measurement, for views spanning all
// users.
func (f *Fetcher) LoadAll(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Users, err = f.store.ListUsers(gctx)
		return f.check("users", err)
	})
	g.Go(func() (err error) {
		snap.Types, err = f.store.ListMeasurementTypes(gctx)
		return f.check("measurement_types", err)
	})
	g.Go(func() (err error) {
		snap.Measurements, err = f.store.ListMeasurements(gctx, domain.MeasurementFilter{Order: domain.SortDesc})
		return f.check("measurements", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (f *Fetcher) check(table string, err error) error {
	if err == nil {
		return nil
	}
	f.failed(table, err)
	return fmt.Errorf("fetch %s: %w", table, err)
}

func (f *Fetcher) failed(table string, err error) {
	log.WithField("table", table).Errorf("fetch failed: %s", err)
	if f.metrics != nil {
		f.metrics.CounterFetchFailures.WithLabelValues(table).Inc()
	}
}
