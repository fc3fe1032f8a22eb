package fetch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"bodymetrics/internal/domain"
	"bodymetrics/internal/fetch"
	"bodymetrics/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockStore struct {
	usersFn        func(ctx context.Context) ([]domain.User, error)
	typesFn        func(ctx context.Context) ([]domain.MeasurementType, error)
	ordersFn       func(ctx context.Context, userID int64) ([]domain.DisplayOrder, error)
	measurementsFn func(ctx context.Context, f domain.MeasurementFilter) ([]domain.Measurement, error)
	goalsFn        func(ctx context.Context, f domain.GoalFilter) ([]domain.Goal, error)
}

func (m *mockStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	if m.usersFn != nil {
		return m.usersFn(ctx)
	}
	return []domain.User{{ID: 1, Name: "Ana"}, {ID: 2, Name: "Dan"}}, nil
}

func (m *mockStore) ListMeasurementTypes(ctx context.Context) ([]domain.MeasurementType, error) {
	if m.typesFn != nil {
		return m.typesFn(ctx)
	}
	return []domain.MeasurementType{{ID: 1, Name: "Weight", Unit: "kg"}}, nil
}

func (m *mockStore) ListDisplayOrders(ctx context.Context, userID int64) ([]domain.DisplayOrder, error) {
	if m.ordersFn != nil {
		return m.ordersFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockStore) ListMeasurements(ctx context.Context, f domain.MeasurementFilter) ([]domain.Measurement, error) {
	if m.measurementsFn != nil {
		return m.measurementsFn(ctx, f)
	}
	return []domain.Measurement{{ID: 1, UserID: f.UserID, MeasurementTypeID: 1, Value: 80}}, nil
}

func (m *mockStore) ListGoals(ctx context.Context, f domain.GoalFilter) ([]domain.Goal, error) {
	if m.goalsFn != nil {
		return m.goalsFn(ctx, f)
	}
	return []domain.Goal{{ID: 1, UserID: f.UserID, MeasurementTypeID: 1, GoalValue: 70, GoalType: domain.GoalDecrease}}, nil
}

func TestFetcher_SingleReadFailureIsEmpty(t *testing.T) {
	mm, _ := metrics.NewTestManagerAndRegistry()
	boom := errors.New("connection refused")
	f := fetch.New(&mockStore{
		usersFn: func(context.Context) ([]domain.User, error) { return nil, boom },
		typesFn: func(context.Context) ([]domain.MeasurementType, error) { return nil, boom },
		measurementsFn: func(context.Context, domain.MeasurementFilter) ([]domain.Measurement, error) {
			return nil, boom
		},
		goalsFn: func(context.Context, domain.GoalFilter) ([]domain.Goal, error) { return nil, boom },
	}, mm)
	ctx := context.Background()

	assert.NotNil(t, f.Users(ctx))
	assert.Empty(t, f.Users(ctx))
	assert.Empty(t, f.MeasurementTypes(ctx))
	assert.Empty(t, f.Measurements(ctx, domain.MeasurementFilter{}))
	assert.Empty(t, f.Goals(ctx, domain.GoalFilter{}))

	assert.Equal(t, 2.0, testutil.ToFloat64(mm.CounterFetchFailures.WithLabelValues("users")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mm.CounterFetchFailures.WithLabelValues("goals")))
}

func TestFetcher_Load_DefaultsToFirstUser(t *testing.T) {
	var gotFilter domain.MeasurementFilter
	f := fetch.New(&mockStore{
		measurementsFn: func(_ context.Context, filter domain.MeasurementFilter) ([]domain.Measurement, error) {
			gotFilter = filter
			return []domain.Measurement{{ID: 3, UserID: filter.UserID}}, nil
		},
	}, nil)

	snap, err := f.Load(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, int64(1), snap.UserID)
	assert.Len(t, snap.Users, 2)
	assert.Len(t, snap.Types, 1)
	require.Len(t, snap.Goals, 1)
	assert.Equal(t, int64(1), snap.Goals[0].UserID)
	require.Len(t, snap.Measurements, 1)

	assert.Equal(t, int64(1), gotFilter.UserID)
	assert.Equal(t, domain.SortDesc, gotFilter.Order)
	assert.True(t, gotFilter.ExpandType)
}

func TestFetcher_Load_SelectedUser(t *testing.T) {
	f := fetch.New(&mockStore{}, nil)

	snap, err := f.Load(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.UserID)
	assert.Equal(t, int64(2), snap.Measurements[0].UserID)
}

func TestFetcher_Load_NoUsers(t *testing.T) {
	var measurementReads atomic.Int32
	f := fetch.New(&mockStore{
		usersFn: func(context.Context) ([]domain.User, error) { return []domain.User{}, nil },
		measurementsFn: func(context.Context, domain.MeasurementFilter) ([]domain.Measurement, error) {
			measurementReads.Add(1)
			return nil, nil
		},
	}, nil)

	snap, err := f.Load(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.UserID)
	assert.Empty(t, snap.Measurements)
	assert.Equal(t, int32(0), measurementReads.Load())
}

func TestFetcher_Load_GroupFailureAbortsAll(t *testing.T) {
	f := fetch.New(&mockStore{
		typesFn: func(context.Context) ([]domain.MeasurementType, error) {
			return nil, errors.New("relation does not exist")
		},
	}, nil)

	snap, err := f.Load(context.Background(), 1)
	require.Error(t, err)
	assert.Nil(t, snap)
	assert.Contains(t, err.Error(), "measurement_types")
}

func TestFetcher_Load_SecondGroupFailure(t *testing.T) {
	f := fetch.New(&mockStore{
		goalsFn: func(context.Context, domain.GoalFilter) ([]domain.Goal, error) {
			return nil, errors.New("timeout")
		},
	}, nil)

	snap, err := f.Load(context.Background(), 1)
	require.Error(t, err)
	assert.Nil(t, snap)
}

func TestFetcher_LoadAll(t *testing.T) {
	var gotFilter domain.MeasurementFilter
	f := fetch.New(&mockStore{
		measurementsFn: func(_ context.Context, filter domain.MeasurementFilter) ([]domain.Measurement, error) {
			gotFilter = filter
			return []domain.Measurement{{ID: 1, UserID: 1}, {ID: 2, UserID: 2}}, nil
		},
	}, nil)

	snap, err := f.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Measurements, 2)
	assert.Equal(t, int64(0), gotFilter.UserID)
	assert.Equal(t, int64(0), snap.UserID)
}
