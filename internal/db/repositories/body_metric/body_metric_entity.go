package body_metric

import "time"

// BodyMetric is one BMI submission. Rows are never updated.
type BodyMetric struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UserID    uint      `gorm:"column:user_id;not null;index" json:"user_id"`

	HeightM             float64 `gorm:"column:height_m;not null" json:"height_m"`
	WeightKg            float64 `gorm:"column:weight_kg;not null" json:"weight_kg"`
	BMI                 float64 `gorm:"column:bmi;not null" json:"bmi"`
	Classification      string  `gorm:"column:classification;type:varchar(50);not null" json:"classification"`
	RecommendedCalories *int    `gorm:"column:recommended_calories" json:"recommended_calories,omitempty"`
}

func (BodyMetric) TableName() string {
	return "body_metrics"
}
