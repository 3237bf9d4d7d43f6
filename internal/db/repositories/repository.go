package repositories

import (
	"context"

	"github.com/MyelinBots/vitals-go/internal/db"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/body_metric"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/consumption"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/food_item"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/user"
)

// Store groups the repositories a request needs. Transaction hands fn a Store
// whose repositories all write through the same transaction.
type Store interface {
	Users() user.UserRepository
	BodyMetrics() body_metric.BodyMetricRepository
	Foods() food_item.FoodItemRepository
	Consumptions() consumption.ConsumptionRepository

	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type StoreImpl struct {
	db           *db.DB
	users        user.UserRepository
	bodyMetrics  body_metric.BodyMetricRepository
	foods        food_item.FoodItemRepository
	consumptions consumption.ConsumptionRepository
}

func NewStore(database *db.DB) Store {
	return &StoreImpl{
		db:           database,
		users:        user.NewUserRepository(database),
		bodyMetrics:  body_metric.NewBodyMetricRepository(database),
		foods:        food_item.NewFoodItemRepository(database),
		consumptions: consumption.NewConsumptionRepository(database),
	}
}

func (s *StoreImpl) Users() user.UserRepository                     { return s.users }
func (s *StoreImpl) BodyMetrics() body_metric.BodyMetricRepository { return s.bodyMetrics }
func (s *StoreImpl) Foods() food_item.FoodItemRepository           { return s.foods }
func (s *StoreImpl) Consumptions() consumption.ConsumptionRepository {
	return s.consumptions
}

func (s *StoreImpl) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.Transaction(ctx, func(tx *db.DB) error {
		return fn(NewStore(tx))
	})
}
