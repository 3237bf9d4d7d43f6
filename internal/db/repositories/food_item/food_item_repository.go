package food_item

import (
	"context"
	"errors"

	"github.com/MyelinBots/vitals-go/internal/db"
	"gorm.io/gorm"
)

type FoodItemRepository interface {
	CreateFood(ctx context.Context, food *FoodItem) error
	GetFoodForUser(ctx context.Context, userID, id uint) (*FoodItem, error)
	RecentFoods(ctx context.Context, userID uint, limit int) ([]*FoodItem, error)
}

type FoodItemRepositoryImpl struct {
	db *db.DB
}

func NewFoodItemRepository(database *db.DB) FoodItemRepository {
	return &FoodItemRepositoryImpl{db: database}
}

func (r *FoodItemRepositoryImpl) CreateFood(ctx context.Context, food *FoodItem) error {
	return r.db.DB.WithContext(ctx).Create(food).Error
}

// GetFoodForUser returns nil, nil when the row is missing or owned by someone else.
func (r *FoodItemRepositoryImpl) GetFoodForUser(ctx context.Context, userID, id uint) (*FoodItem, error) {
	var f FoodItem
	err := r.db.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *FoodItemRepositoryImpl) RecentFoods(ctx context.Context, userID uint, limit int) ([]*FoodItem, error) {
	if limit <= 0 {
		limit = 10
	}

	var foods []*FoodItem
	if err := r.db.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}
