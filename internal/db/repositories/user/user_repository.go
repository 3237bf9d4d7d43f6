package user

import (
	"context"
	"errors"
	"strings"

	"github.com/MyelinBots/vitals-go/internal/db"
	"gorm.io/gorm"
)

var ErrDuplicateEmail = errors.New("email already registered")

type UserRepository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id uint, goal *string, activityLevel string) error
	DeleteUser(ctx context.Context, id uint) error
}

type UserRepositoryImpl struct {
	db *db.DB
}

func NewUserRepository(database *db.DB) UserRepository {
	return &UserRepositoryImpl{db: database}
}

// NormalizeEmail is the single place emails are case-folded.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (r *UserRepositoryImpl) CreateUser(ctx context.Context, u *User) error {
	u.Email = NormalizeEmail(u.Email)
	err := r.db.DB.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var u User
	err := r.db.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.DB.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepositoryImpl) UpdateProfile(ctx context.Context, id uint, goal *string, activityLevel string) error {
	return r.db.DB.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"goal":           goal,
			"activity_level": activityLevel,
		}).Error
}

/*
CASCADE
Dependents are removed explicitly as well as by the FK constraints, so the
delete behaves the same on a schema created without them.
*/

func (r *UserRepositoryImpl) DeleteUser(ctx context.Context, id uint) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"consumptions", "food_items", "body_metrics"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE user_id = ?", id).Error; err != nil {
				return err
			}
		}
		return tx.Exec("DELETE FROM users WHERE id = ?", id).Error
	})
}
