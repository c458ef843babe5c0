package sql

import (
	"context"
	"fmt"
	"storerating/internal/entity"
	"strings"
	"time"

	"gorm.io/gorm"
)

// CreatePasswordReset stores a new reset token.
func (r *GormRepository) CreatePasswordReset(ctx context.Context, reset *entity.DbPasswordReset) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if reset == nil || reset.UserID == 0 || strings.TrimSpace(reset.Token) == "" {
		return fmt.Errorf("reset must reference a user and carry a token")
	}
	return r.db.WithContext(ctx).Create(reset).Error
}

// GetPasswordResetByToken loads a reset by its token.
func (r *GormRepository) GetPasswordResetByToken(ctx context.Context, token string) (*entity.DbPasswordReset, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(token) == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var reset entity.DbPasswordReset
	if err := r.db.WithContext(ctx).Where("token = ?", token).Take(&reset).Error; err != nil {
		return nil, err
	}
	return &reset, nil
}

// DeletePasswordResetByID removes a reset row; deleting a missing row is not an error.
func (r *GormRepository) DeletePasswordResetByID(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return r.db.WithContext(ctx).Delete(&entity.DbPasswordReset{}, id).Error
}

// DeletePasswordResetByToken removes a reset row by token.
func (r *GormRepository) DeletePasswordResetByToken(ctx context.Context, token string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&entity.DbPasswordReset{}).Error
}

// DeleteExpiredPasswordResets removes every reset that expired before now and
// reports how many were removed.
func (r *GormRepository) DeleteExpiredPasswordResets(ctx context.Context, now time.Time) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&entity.DbPasswordReset{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ConsumePasswordReset deletes the reset and stores the new password hash in
// one transaction. If another request consumed the reset first it returns
// gorm.ErrRecordNotFound and the password is left untouched.
func (r *GormRepository) ConsumePasswordReset(ctx context.Context, resetID, userID uint, passwordHash string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(passwordHash) == "" {
		return fmt.Errorf("password hash is empty")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted := tx.Where("id = ? AND user_id = ?", resetID, userID).Delete(&entity.DbPasswordReset{})
		if deleted.Error != nil {
			return deleted.Error
		}
		if deleted.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		updated := tx.Model(&entity.DbUser{}).Where("id = ?", userID).Update("password", passwordHash)
		if updated.Error != nil {
			return updated.Error
		}
		if updated.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
