package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MyelinBots/vitals-go/internal/db/repositories"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/consumption"
)

var (
	ErrFoodNotFound   = errors.New("food not found")
	ErrPortionTooLong = errors.New("portion must be at most 50 characters")
)

const DefaultHistoryLimit = 50

type Service struct {
	store repositories.Store
	now   func() time.Time
}

func NewService(store repositories.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock replaces the time source used for consumed_at.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// LogConsumption records that the user ate one of their own looked-up foods.
// Nutrient values are copied so later changes to the food do not alter it.
func (s *Service) LogConsumption(ctx context.Context, userID, foodItemID uint, portion string) (*consumption.Consumption, error) {
	portion = strings.TrimSpace(portion)
	if utf8.RuneCountInString(portion) > consumption.MaxPortionLength {
		return nil, ErrPortionTooLong
	}
	if portion == "" {
		portion = consumption.DefaultPortion
	}

	food, err := s.store.Foods().GetFoodForUser(ctx, userID, foodItemID)
	if err != nil {
		return nil, fmt.Errorf("get food: %w", err)
	}
	if food == nil {
		return nil, ErrFoodNotFound
	}

	id := food.ID
	entry := &consumption.Consumption{
		UserID:        userID,
		FoodItemID:    &id,
		ConsumedAt:    s.now().UTC(),
		Portion:       portion,
		Name:          food.Name,
		Calories:      food.Calories,
		Protein:       food.Protein,
		Fat:           food.Fat,
		Carbohydrates: food.Carbohydrates,
	}
	if err := s.store.Consumptions().CreateConsumption(ctx, entry); err != nil {
		return nil, fmt.Errorf("create consumption: %w", err)
	}
	return entry, nil
}

// DeleteConsumption removes an entry the user owns. Missing or foreign ids are
// ignored.
func (s *Service) DeleteConsumption(ctx context.Context, userID, id uint) error {
	if _, err := s.store.Consumptions().DeleteConsumption(ctx, userID, id); err != nil {
		return fmt.Errorf("delete consumption: %w", err)
	}
	return nil
}

func (s *Service) DailyConsumedCalories(ctx context.Context, userID uint, date time.Time) (float64, error) {
	totals, err := s.DailyTotals(ctx, userID, date)
	if err != nil {
		return 0, err
	}
	return totals.Calories, nil
}

func (s *Service) DailyTotals(ctx context.Context, userID uint, date time.Time) (consumption.Totals, error) {
	from, to := DayWindow(date)
	totals, err := s.store.Consumptions().SumBetween(ctx, userID, from, to)
	if err != nil {
		return consumption.Totals{}, fmt.Errorf("sum consumptions: %w", err)
	}
	return totals, nil
}

// Today lists the entries on date's calendar day, newest first.
func (s *Service) Today(ctx context.Context, userID uint, date time.Time) ([]*consumption.Consumption, error) {
	from, to := DayWindow(date)
	return s.store.Consumptions().ListBetween(ctx, userID, from, to)
}

// LatestRecommendedCalories is nil when the user has no measurement yet or
// the newest one carries no figure.
func (s *Service) LatestRecommendedCalories(ctx context.Context, userID uint) (*int, error) {
	latest, err := s.store.BodyMetrics().LatestForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("latest measurement: %w", err)
	}
	if latest == nil {
		return nil, nil
	}
	return latest.RecommendedCalories, nil
}

func (s *Service) History(ctx context.Context, userID uint, limit int) ([]*consumption.Consumption, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.store.Consumptions().ListForUser(ctx, userID, limit)
}

// DayWindow is the half-open UTC interval covering date's calendar day. The
// wall-clock date is kept as given; only its zone is discarded.
func DayWindow(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return from, from.Add(24 * time.Hour)
}
