package consumption

import "time"

const (
	DefaultPortion = "100 g"

	MaxPortionLength = 50
)

// Consumption is a logged intake. The nutrient columns are a copy of the food
// item at logging time and are never recomputed from it.
type Consumption struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"column:user_id;not null;index:idx_consumptions_user_time,priority:1" json:"user_id"`
	FoodItemID *uint     `gorm:"column:food_item_id" json:"food_item_id,omitempty"`
	ConsumedAt time.Time `gorm:"column:consumed_at;not null;index:idx_consumptions_user_time,priority:2" json:"consumed_at"`
	Portion    string    `gorm:"column:portion;type:varchar(50);not null;default:'100 g'" json:"portion"`

	Name          string  `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Calories      float64 `gorm:"column:calories;not null;default:0" json:"calories"`
	Protein       float64 `gorm:"column:protein;not null;default:0" json:"protein"`
	Fat           float64 `gorm:"column:fat;not null;default:0" json:"fat"`
	Carbohydrates float64 `gorm:"column:carbohydrates;not null;default:0" json:"carbohydrates"`
}

func (Consumption) TableName() string {
	return "consumptions"
}

// Totals is a nutrient sum over a set of consumptions.
type Totals struct {
	Calories      float64 `gorm:"column:calories" json:"calories"`
	Protein       float64 `gorm:"column:protein" json:"protein"`
	Fat           float64 `gorm:"column:fat" json:"fat"`
	Carbohydrates float64 `gorm:"column:carbohydrates" json:"carbohydrates"`
}

func (t *Totals) Add(c *Consumption) {
	t.Calories += c.Calories
	t.Protein += c.Protein
	t.Fat += c.Fat
	t.Carbohydrates += c.Carbohydrates
}
