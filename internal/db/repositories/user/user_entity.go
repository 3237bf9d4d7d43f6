package user

import "time"

// Column widths in 000001_create_users, counted in characters.
const (
	MaxNameLength  = 150
	MaxEmailLength = 150
	MaxGoalLength  = 200
)

type User struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Name          string    `gorm:"column:name;type:varchar(150);not null" json:"name"`
	BirthDate     time.Time `gorm:"column:birth_date;type:date;not null" json:"birth_date"`
	Sex           string    `gorm:"column:sex;type:varchar(10);not null" json:"sex"`
	Goal          *string   `gorm:"column:goal;type:varchar(200)" json:"goal,omitempty"`
	ActivityLevel string    `gorm:"column:activity_level;type:varchar(20);not null" json:"activity_level"`

	Email        string `gorm:"column:email;type:varchar(150);not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(150);not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// GoalOrEmpty returns the goal text, or "" when no goal is set.
func (u *User) GoalOrEmpty() string {
	if u.Goal == nil {
		return ""
	}
	return *u.Goal
}
