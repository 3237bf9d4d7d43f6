package body_metric

import (
	"context"
	"errors"

	"github.com/MyelinBots/vitals-go/internal/db"
	"gorm.io/gorm"
)

type BodyMetricRepository interface {
	CreateRecord(ctx context.Context, record *BodyMetric) error
	LatestForUser(ctx context.Context, userID uint) (*BodyMetric, error)
	ListForUser(ctx context.Context, userID uint, limit int) ([]*BodyMetric, error)
}

type BodyMetricRepositoryImpl struct {
	db *db.DB
}

func NewBodyMetricRepository(database *db.DB) BodyMetricRepository {
	return &BodyMetricRepositoryImpl{db: database}
}

func (r *BodyMetricRepositoryImpl) CreateRecord(ctx context.Context, record *BodyMetric) error {
	return r.db.DB.WithContext(ctx).Create(record).Error
}

// LatestForUser orders by id, so two submissions in the same clock tick still
// resolve to the one inserted last.
func (r *BodyMetricRepositoryImpl) LatestForUser(ctx context.Context, userID uint) (*BodyMetric, error) {
	var rec BodyMetric
	err := r.db.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *BodyMetricRepositoryImpl) ListForUser(ctx context.Context, userID uint, limit int) ([]*BodyMetric, error) {
	if limit <= 0 {
		limit = 10
	}

	var records []*BodyMetric
	if err := r.db.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
