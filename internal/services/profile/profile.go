package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/MyelinBots/vitals-go/internal/db/repositories"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/body_metric"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/consumption"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/user"
	"github.com/MyelinBots/vitals-go/internal/services/calculator"
	"github.com/MyelinBots/vitals-go/internal/services/ledger"
)

var (
	ErrInvalidActivity = errors.New("unrecognised activity level")
	ErrUserNotFound    = errors.New("user not found")
	ErrGoalTooLong     = errors.New("goal must be at most 200 characters")
)

const DefaultMeasurementLimit = 10

// MeasurementInput is one BMI submission. Goal and ActivityLevel are optional
// profile changes applied in the same write; nil leaves them as they are and
// an empty Goal clears it.
type MeasurementInput struct {
	HeightM       float64 `form:"height_m" json:"height_m"`
	WeightKg      float64 `form:"weight_kg" json:"weight_kg"`
	Goal          *string `form:"goal" json:"goal"`
	ActivityLevel *string `form:"activity_level" json:"activity_level"`
}

type GoalsInput struct {
	Goal          *string `form:"goal" json:"goal"`
	ActivityLevel *string `form:"activity_level" json:"activity_level"`
}

// Summary backs the dashboard view.
type Summary struct {
	User          *user.User                 `json:"user"`
	Latest        *body_metric.BodyMetric    `json:"latest_measurement,omitempty"`
	Recommended   *int                       `json:"recommended_calories,omitempty"`
	ConsumedToday float64                    `json:"consumed_today"`
	Remaining     *float64                   `json:"remaining_calories,omitempty"`
	Totals        consumption.Totals         `json:"totals"`
	Today         []*consumption.Consumption `json:"today"`
}

type Service struct {
	store  repositories.Store
	ledger *ledger.Service
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store repositories.Store, ledgerSvc *ledger.Service, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		ledger: ledgerSvc,
		logger: logger.With("component", "profile"),
		now:    time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SubmitMeasurement stores a new BMI record and any goal or activity change
// together. Nothing is written when the measurement is invalid.
func (s *Service) SubmitMeasurement(ctx context.Context, userID uint, in MeasurementInput) (*body_metric.BodyMetric, error) {
	bmi, err := calculator.ComputeBMI(in.HeightM, in.WeightKg)
	if err != nil {
		return nil, err
	}

	var record *body_metric.BodyMetric
	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		u, err := applyGoals(ctx, tx, userID, in.Goal, in.ActivityLevel)
		if err != nil {
			return err
		}

		age := calculator.AgeOn(u.BirthDate, s.now().UTC())
		calories := calculator.EstimateDailyCalories(u.Sex, u.ActivityLevel, u.GoalOrEmpty(), age, in.WeightKg, in.HeightM)

		record = &body_metric.BodyMetric{
			UserID:              userID,
			HeightM:             in.HeightM,
			WeightKg:            in.WeightKg,
			BMI:                 bmi,
			Classification:      string(calculator.ClassifyBMI(bmi)),
			RecommendedCalories: &calories,
		}
		return tx.BodyMetrics().CreateRecord(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("measurement recorded", "user_id", userID, "bmi", record.BMI, "classification", record.Classification)
	return record, nil
}

// UpdateGoals changes goal and activity in place without adding a record.
func (s *Service) UpdateGoals(ctx context.Context, userID uint, in GoalsInput) (*user.User, error) {
	var updated *user.User
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		u, err := applyGoals(ctx, tx, userID, in.Goal, in.ActivityLevel)
		updated = u
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Measurements(ctx context.Context, userID uint, limit int) ([]*body_metric.BodyMetric, error) {
	if limit <= 0 {
		limit = DefaultMeasurementLimit
	}
	return s.store.BodyMetrics().ListForUser(ctx, userID, limit)
}

func (s *Service) Dashboard(ctx context.Context, userID uint, now time.Time) (*Summary, error) {
	u, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	latest, err := s.store.BodyMetrics().LatestForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("latest measurement: %w", err)
	}
	totals, err := s.ledger.DailyTotals(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	today, err := s.ledger.Today(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		User:          u,
		Latest:        latest,
		ConsumedToday: totals.Calories,
		Totals:        totals,
		Today:         today,
	}
	if latest != nil && latest.RecommendedCalories != nil {
		summary.Recommended = latest.RecommendedCalories
		remaining := float64(*latest.RecommendedCalories) - totals.Calories
		summary.Remaining = &remaining
	}
	if summary.Today == nil {
		summary.Today = []*consumption.Consumption{}
	}
	return summary, nil
}

func applyGoals(ctx context.Context, tx repositories.Store, userID uint, goal, activity *string) (*user.User, error) {
	u, err := tx.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if goal == nil && activity == nil {
		return u, nil
	}

	if goal != nil {
		g := calculator.CanonicalGoal(*goal)
		if utf8.RuneCountInString(g) > user.MaxGoalLength {
			return nil, ErrGoalTooLong
		}
		if g == "" {
			u.Goal = nil
		} else {
			u.Goal = &g
		}
	}
	if activity != nil {
		level, ok := calculator.CanonicalActivity(*activity)
		if !ok {
			return nil, ErrInvalidActivity
		}
		u.ActivityLevel = level
	}

	if err := tx.Users().UpdateProfile(ctx, u.ID, u.Goal, u.ActivityLevel); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}
