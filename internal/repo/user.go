package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/G1-LevelUp/levelup-backend/internal/models"
)

// CreateUser inserts a new user and returns the assigned id. Username
// uniqueness is the unique index on the column, a conflict comes back as
// ErrUserAlreadyExist. There is no check-then-insert window.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) (uint, error) {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrUserAlreadyExist
		}
		return 0, err
	}
	return u.ID, nil
}

// FindByUsername is a case-sensitive exact lookup.
func (r *GormRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
