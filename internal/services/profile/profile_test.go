package profile

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MyelinBots/vitals-go/internal/db/repositories/food_item"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/memstore"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/user"
	"github.com/MyelinBots/vitals-go/internal/logging"
	"github.com/MyelinBots/vitals-go/internal/services/calculator"
	"github.com/MyelinBots/vitals-go/internal/services/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc    *Service
	ledger *ledger.Service
	store  *memstore.Store
	userID uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	goal := calculator.GoalMaintain
	u := &user.User{
		Name:          "Sam",
		Email:         "sam@example.com",
		BirthDate:     time.Date(1984, 6, 15, 0, 0, 0, 0, time.UTC),
		Sex:           calculator.SexMale,
		Goal:          &goal,
		ActivityLevel: calculator.ActivitySedentary,
	}
	require.NoError(t, store.Users().CreateUser(context.Background(), u))

	l := ledger.NewService(store).WithClock(func() time.Time { return now })
	svc := NewService(store, l, logging.Discard()).WithClock(func() time.Time { return now })
	return &fixture{svc: svc, ledger: l, store: store, userID: u.ID}
}

func strPtr(s string) *string { return &s }

func TestSubmitMeasurement(t *testing.T) {
	f := newFixture(t)

	record, err := f.svc.SubmitMeasurement(context.Background(), f.userID, MeasurementInput{HeightM: 1.80, WeightKg: 80})
	require.NoError(t, err)
	assert.Equal(t, 24.69, record.BMI)
	assert.Equal(t, string(calculator.Normal), record.Classification)
	require.NotNil(t, record.RecommendedCalories)
	// age 40, sedentary, maintain: (800 + 1125 - 200 + 5) * 1.2
	assert.Equal(t, 2076, *record.RecommendedCalories)

	list, err := f.svc.Measurements(context.Background(), f.userID, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSubmitMeasurement_AppliesProfileChanges(t *testing.T) {
	f := newFixture(t)

	record, err := f.svc.SubmitMeasurement(context.Background(), f.userID, MeasurementInput{
		HeightM:       1.80,
		WeightKg:      80,
		Goal:          strPtr("Lose Weight"),
		ActivityLevel: strPtr("Moderate"),
	})
	require.NoError(t, err)
	// 1730 * 1.55 - 500
	assert.Equal(t, 2182, *record.RecommendedCalories)

	u, err := f.store.Users().GetUserByID(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, calculator.GoalLose, u.GoalOrEmpty())
	assert.Equal(t, calculator.ActivityModerate, u.ActivityLevel)
}

func TestSubmitMeasurement_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		in      MeasurementInput
		wantErr error
	}{
		{"zero height", MeasurementInput{HeightM: 0, WeightKg: 70}, calculator.ErrInvalidMeasurement},
		{"negative weight", MeasurementInput{HeightM: 1.7, WeightKg: -1}, calculator.ErrInvalidMeasurement},
		{"goal over 200 characters", MeasurementInput{HeightM: 1.7, WeightKg: 70, Goal: strPtr(strings.Repeat("g", 201))}, ErrGoalTooLong},
		{"unknown activity", MeasurementInput{HeightM: 1.7, WeightKg: 70, ActivityLevel: strPtr("couch"), Goal: strPtr("gain weight")}, ErrInvalidActivity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.SubmitMeasurement(context.Background(), f.userID, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)

			list, err := f.svc.Measurements(context.Background(), f.userID, 0)
			require.NoError(t, err)
			assert.Empty(t, list)

			u, _ := f.store.Users().GetUserByID(context.Background(), f.userID)
			assert.Equal(t, calculator.GoalMaintain, u.GoalOrEmpty())
		})
	}
}

func TestUpdateGoals_NoRecord(t *testing.T) {
	f := newFixture(t)

	u, err := f.svc.UpdateGoals(context.Background(), f.userID, GoalsInput{Goal: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, u.Goal)
	assert.Equal(t, calculator.ActivitySedentary, u.ActivityLevel)

	list, err := f.svc.Measurements(context.Background(), f.userID, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateGoals_GoalLength(t *testing.T) {
	f := newFixture(t)

	u, err := f.svc.UpdateGoals(context.Background(), f.userID, GoalsInput{Goal: strPtr(strings.Repeat("g", 200))})
	require.NoError(t, err)
	assert.Len(t, u.GoalOrEmpty(), 200)

	_, err = f.svc.UpdateGoals(context.Background(), f.userID, GoalsInput{Goal: strPtr(strings.Repeat("g", 201))})
	assert.ErrorIs(t, err, ErrGoalTooLong)

	stored, _ := f.store.Users().GetUserByID(context.Background(), f.userID)
	assert.Len(t, stored.GoalOrEmpty(), 200)
}

func TestUpdateGoals_UnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpdateGoals(context.Background(), 999, GoalsInput{Goal: strPtr("gain weight")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.svc.Dashboard(ctx, f.userID, now)
	require.NoError(t, err)
	assert.Nil(t, summary.Latest)
	assert.Nil(t, summary.Recommended)
	assert.Nil(t, summary.Remaining)
	assert.Empty(t, summary.Today)

	_, err = f.svc.SubmitMeasurement(ctx, f.userID, MeasurementInput{HeightM: 1.80, WeightKg: 80})
	require.NoError(t, err)

	food := &food_item.FoodItem{UserID: f.userID, Name: "Oats", Calories: 389, Protein: 16.9}
	require.NoError(t, f.store.Foods().CreateFood(ctx, food))
	_, err = f.ledger.LogConsumption(ctx, f.userID, food.ID, "")
	require.NoError(t, err)

	summary, err = f.svc.Dashboard(ctx, f.userID, now)
	require.NoError(t, err)
	require.NotNil(t, summary.Recommended)
	assert.Equal(t, 2076, *summary.Recommended)
	assert.InDelta(t, 389, summary.ConsumedToday, 1e-9)
	require.NotNil(t, summary.Remaining)
	assert.InDelta(t, 1687, *summary.Remaining, 1e-9)
	assert.Len(t, summary.Today, 1)
	assert.InDelta(t, 16.9, summary.Totals.Protein, 1e-9)

	tomorrow, err := f.svc.Dashboard(ctx, f.userID, now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, tomorrow.ConsumedToday)
}
