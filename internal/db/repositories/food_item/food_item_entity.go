package food_item

import "time"

// FoodItem is a lookup result saved for a user. Nutrients are per 100 g.
type FoodItem struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UserID    uint      `gorm:"column:user_id;not null;index" json:"user_id"`

	Name          string  `gorm:"column:name;type:varchar(100);not null" json:"name"`
	ImageURL      string  `gorm:"column:image_url;type:text;not null;default:''" json:"image_url,omitempty"`
	Calories      float64 `gorm:"column:calories;not null;default:0" json:"calories"`
	Protein       float64 `gorm:"column:protein;not null;default:0" json:"protein"`
	Fat           float64 `gorm:"column:fat;not null;default:0" json:"fat"`
	Carbohydrates float64 `gorm:"column:carbohydrates;not null;default:0" json:"carbohydrates"`
}

func (FoodItem) TableName() string {
	return "food_items"
}
