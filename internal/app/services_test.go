package app_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"bodymetrics/internal/adapter/memory"
	"bodymetrics/internal/app"
	"bodymetrics/internal/domain"
	"bodymetrics/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockGoalRepo struct {
	listFn   func(ctx context.Context, f domain.GoalFilter) ([]domain.Goal, error)
	createFn func(ctx context.Context, g domain.Goal) (*domain.Goal, error)
	updateFn func(ctx context.Context, g domain.Goal) error
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockGoalRepo) ListGoals(ctx context.Context, f domain.GoalFilter) ([]domain.Goal, error) {
	if m.listFn != nil {
		return m.listFn(ctx, f)
	}
	return nil, nil
}

func (m *mockGoalRepo) GetGoal(ctx context.Context, id int64) (*domain.Goal, error) {
	return nil, domain.ErrNotFound
}

func (m *mockGoalRepo) CreateGoal(ctx context.Context, g domain.Goal) (*domain.Goal, error) {
	if m.createFn != nil {
		return m.createFn(ctx, g)
	}
	g.ID = 1
	return &g, nil
}

func (m *mockGoalRepo) UpdateGoal(ctx context.Context, g domain.Goal) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, g)
	}
	return nil
}

func (m *mockGoalRepo) DeleteGoal(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func seed(t *testing.T) (*memory.DB, domain.User, domain.MeasurementType) {
	t.Helper()
	ctx := context.Background()
	db := memory.New()
	u, err := db.CreateUser(ctx, "Ana", "ana@example.com")
	require.NoError(t, err)
	mt, err := db.CreateMeasurementType(ctx, domain.MeasurementType{Name: "Weight", Unit: "kg"})
	require.NoError(t, err)
	return db, *u, *mt
}

func TestUserService_Validation(t *testing.T) {
	svc := app.NewUserService(memory.New(), nil)

	tests := []struct {
		name, userName, email string
	}{
		{"empty name", "  ", "a@b.c"},
		{"empty email", "Ana", ""},
		{"email without at", "Ana", "ana.example.com"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.userName, tc.email)
			assert.ErrorIs(t, err, domain.ErrInvalid)
		})
	}
}

func TestUserService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := app.NewUserService(memory.New(), nil)

	u, err := svc.Create(ctx, " Ana ", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)

	u, err = svc.Update(ctx, u.ID, "Ana Maria", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", u.Name)

	_, err = svc.Update(ctx, 99, "X", "x@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, u.ID))
	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestMeasurementTypeService_SetOrder(t *testing.T) {
	ctx := context.Background()
	db, u, weight := seed(t)
	waist, err := db.CreateMeasurementType(ctx, domain.MeasurementType{Name: "Waist", Unit: "cm"})
	require.NoError(t, err)
	svc := app.NewMeasurementTypeService(db, db, nil)

	orders, err := svc.SetOrder(ctx, u.ID, []int64{waist.ID, weight.ID})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, 0, orders[0].Position)
	assert.Equal(t, waist.ID, orders[0].MeasurementTypeID)

	stored, err := svc.Orders(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, orders, stored)

	_, err = svc.SetOrder(ctx, u.ID, []int64{weight.ID, weight.ID})
	assert.ErrorIs(t, err, domain.ErrInvalid)
	_, err = svc.SetOrder(ctx, u.ID, []int64{42})
	assert.ErrorIs(t, err, domain.ErrInvalid)
	_, err = svc.SetOrder(ctx, 42, []int64{weight.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMeasurementTypeService_Validation(t *testing.T) {
	db := memory.New()
	svc := app.NewMeasurementTypeService(db, db, nil)

	_, err := svc.Create(context.Background(), domain.MeasurementType{Name: "Weight"})
	assert.ErrorIs(t, err, domain.ErrInvalid)
	_, err = svc.Create(context.Background(), domain.MeasurementType{Unit: "kg"})
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestMeasurementService_CreateDefaults(t *testing.T) {
	ctx := context.Background()
	db, u, mt := seed(t)
	svc := app.NewMeasurementService(db, db, db, nil)

	v := 80.5
	m, err := svc.Create(ctx, app.MeasurementInput{UserID: u.ID, MeasurementTypeID: mt.ID, Value: &v})
	require.NoError(t, err)
	assert.Equal(t, "kg", m.Unit)
	assert.Equal(t, time.Now().Format(domain.DateLayout), m.Day())

	m, err = svc.Create(ctx, app.MeasurementInput{
		UserID: u.ID, MeasurementTypeID: mt.ID, Value: &v, Unit: "lb", Date: "2024-01-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "lb", m.Unit)
	assert.Equal(t, "2024-01-02", m.Day())
}

func TestMeasurementService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	db, u, mt := seed(t)
	svc := app.NewMeasurementService(db, db, db, nil)
	v, inf := 80.0, math.Inf(1)

	tests := []struct {
		name string
		in   app.MeasurementInput
		want error
	}{
		{"missing value", app.MeasurementInput{UserID: u.ID, MeasurementTypeID: mt.ID}, domain.ErrInvalid},
		{"infinite value", app.MeasurementInput{UserID: u.ID, MeasurementTypeID: mt.ID, Value: &inf}, domain.ErrInvalid},
		{"bad date", app.MeasurementInput{UserID: u.ID, MeasurementTypeID: mt.ID, Value: &v, Date: "2.1.2024"}, domain.ErrInvalid},
		{"unknown type", app.MeasurementInput{UserID: u.ID, MeasurementTypeID: 9, Value: &v}, domain.ErrInvalid},
		{"unknown user", app.MeasurementInput{UserID: 9, MeasurementTypeID: mt.ID, Value: &v}, domain.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestMeasurementService_CreateZeroAndNegative(t *testing.T) {
	ctx := context.Background()
	db, u, mt := seed(t)
	svc := app.NewMeasurementService(db, db, db, nil)

	for _, v := range []float64{0, -1.5} {
		m, err := svc.Create(ctx, app.MeasurementInput{UserID: u.ID, MeasurementTypeID: mt.ID, Value: &v, Date: "2024-01-02"})
		require.NoError(t, err)
		assert.Equal(t, v, m.Value)
	}
}

func TestMeasurementService_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	db, u, mt := seed(t)
	svc := app.NewMeasurementService(db, db, db, nil)

	v := 80.0
	m, err := svc.Create(ctx, app.MeasurementInput{UserID: u.ID, MeasurementTypeID: mt.ID, Value: &v, Date: "2024-01-01"})
	require.NoError(t, err)

	nv, date := 79.2, "2024-01-03"
	updated, err := svc.Update(ctx, m.ID, app.MeasurementPatch{Value: &nv, Date: &date})
	require.NoError(t, err)
	assert.Equal(t, 79.2, updated.Value)
	assert.Equal(t, "2024-01-03", updated.Day())
	assert.Equal(t, "kg", updated.Unit)

	stored, err := db.GetMeasurement(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 79.2, stored.Value)

	_, err = svc.Update(ctx, 999, app.MeasurementPatch{Value: &nv})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGoalService_Validation(t *testing.T) {
	svc := app.NewGoalService(&mockGoalRepo{}, nil)

	tests := []struct {
		name string
		goal domain.Goal
	}{
		{"missing user", domain.Goal{MeasurementTypeID: 1, GoalType: domain.GoalIncrease}},
		{"missing type", domain.Goal{UserID: 1, GoalType: domain.GoalIncrease}},
		{"bad goal type", domain.Goal{UserID: 1, MeasurementTypeID: 1, GoalType: "maintain"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.goal)
			assert.ErrorIs(t, err, domain.ErrInvalid)
		})
	}
}

func TestGoalService_DuplicateRejected(t *testing.T) {
	ctx := context.Background()
	db, u, mt := seed(t)
	svc := app.NewGoalService(db, nil)

	g := domain.Goal{UserID: u.ID, MeasurementTypeID: mt.ID, GoalValue: 70, GoalType: domain.GoalDecrease}
	_, err := svc.Create(ctx, g)
	require.NoError(t, err)
	_, err = svc.Create(ctx, g)
	assert.ErrorIs(t, err, domain.ErrGoalExists)

	goals, err := svc.List(ctx, domain.GoalFilter{UserID: u.ID})
	require.NoError(t, err)
	require.Len(t, goals, 1)
	require.NotNil(t, goals[0].User)
	assert.Equal(t, "ana@example.com", goals[0].User.Email)
	require.NotNil(t, goals[0].Type)
	assert.Equal(t, "kg", goals[0].Type.Unit)
}

func TestGoalService_WriteFailureCounted(t *testing.T) {
	mm := metrics.NewTestManager()
	boom := errors.New("connection reset")
	svc := app.NewGoalService(&mockGoalRepo{
		deleteFn: func(context.Context, int64) error { return boom },
	}, mm)

	err := svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1.0, testutil.ToFloat64(mm.CounterWriteFailures.WithLabelValues("goals")))
}
