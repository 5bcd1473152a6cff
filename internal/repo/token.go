package repo

import (
	"context"
	"time"

	"github.com/G1-LevelUp/levelup-backend/internal/models"
)

func (r *GormRepo) SaveRefreshToken(ctx context.Context, token string, userID uint, role string, expiresAt time.Time) error {
	refreshModel := models.RefreshToken{
		Token:     token,
		UserID:    userID,
		Role:      role,
		ExpiresAt: expiresAt,
	}
	return r.DB.WithContext(ctx).Create(&refreshModel).Error
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", token).
		Update("revoked", true).Error
}

// RefreshTokenValid reports whether the token is known, unrevoked and not
// expired.
func (r *GormRepo) RefreshTokenValid(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ? AND revoked = ? AND expires_at > ?", token, false, time.Now().UTC()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
