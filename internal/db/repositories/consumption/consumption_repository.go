package consumption

import (
	"context"
	"time"

	"github.com/MyelinBots/vitals-go/internal/db"
)

type ConsumptionRepository interface {
	CreateConsumption(ctx context.Context, c *Consumption) error
	DeleteConsumption(ctx context.Context, userID, id uint) (bool, error)
	ListForUser(ctx context.Context, userID uint, limit int) ([]*Consumption, error)
	ListBetween(ctx context.Context, userID uint, from, to time.Time) ([]*Consumption, error)
	SumBetween(ctx context.Context, userID uint, from, to time.Time) (Totals, error)
}

type ConsumptionRepositoryImpl struct {
	db *db.DB
}

func NewConsumptionRepository(database *db.DB) ConsumptionRepository {
	return &ConsumptionRepositoryImpl{db: database}
}

func (r *ConsumptionRepositoryImpl) CreateConsumption(ctx context.Context, c *Consumption) error {
	if c.Portion == "" {
		c.Portion = DefaultPortion
	}
	return r.db.DB.WithContext(ctx).Create(c).Error
}

// DeleteConsumption reports whether a row owned by userID was removed.
func (r *ConsumptionRepositoryImpl) DeleteConsumption(ctx context.Context, userID, id uint) (bool, error) {
	res := r.db.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Consumption{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ConsumptionRepositoryImpl) ListForUser(ctx context.Context, userID uint, limit int) ([]*Consumption, error) {
	q := r.db.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("consumed_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []*Consumption
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

/*
DAY WINDOWS
from is inclusive, to is exclusive.
*/

func (r *ConsumptionRepositoryImpl) ListBetween(ctx context.Context, userID uint, from, to time.Time) ([]*Consumption, error) {
	var out []*Consumption
	if err := r.db.DB.WithContext(ctx).
		Where("user_id = ? AND consumed_at >= ? AND consumed_at < ?", userID, from, to).
		Order("consumed_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ConsumptionRepositoryImpl) SumBetween(ctx context.Context, userID uint, from, to time.Time) (Totals, error) {
	var t Totals
	err := r.db.DB.WithContext(ctx).
		Model(&Consumption{}).
		Select("COALESCE(SUM(calories), 0) AS calories, "+
			"COALESCE(SUM(protein), 0) AS protein, "+
			"COALESCE(SUM(fat), 0) AS fat, "+
			"COALESCE(SUM(carbohydrates), 0) AS carbohydrates").
		Where("user_id = ? AND consumed_at >= ? AND consumed_at < ?", userID, from, to).
		Scan(&t).Error
	return t, err
}
