package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moham3d/clinic-records/internal/models"
)

var (
	ErrSessionInvalid = errors.New("session revoked or expired")
	// ErrTokenReuse signals a refresh token presented after it was
	// already rotated away. The session family is revoked when this
	// fires.
	ErrTokenReuse = errors.New("refresh token reuse detected")
)

func (r *GormRepo) CreateSession(ctx context.Context, s *models.Session) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

// RotateSession atomically swaps the session's accepted refresh jti.
// The check-and-set update is what makes concurrent rotations with the
// same old jti safe: exactly one caller wins, the loser gets
// ErrTokenReuse and the whole session is revoked.
func (r *GormRepo) RotateSession(ctx context.Context, sessionID uuid.UUID, oldJTI, newJTI string, expiresAt int64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Session{}).
			Where("id = ? AND current_jti = ? AND revoked = ? AND expires_at > ?",
				sessionID, oldJTI, false, time.Now().Unix()).
			Updates(map[string]any{"current_jti": newJTI, "expires_at": expiresAt})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		var s models.Session
		if err := tx.Where("id = ?", sessionID).First(&s).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionInvalid
			}
			return err
		}
		if s.Revoked || s.ExpiresAt <= time.Now().Unix() {
			return ErrSessionInvalid
		}

		// Live session, stale jti: the token was already used once.
		if err := tx.Model(&models.Session{}).Where("id = ?", sessionID).
			Update("revoked", true).Error; err != nil {
			return err
		}
		return ErrTokenReuse
	})
}

// SessionValid is consulted on every authenticated request so that
// logout and password change take effect before access tokens expire
// naturally.
func (r *GormRepo) SessionValid(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND revoked = ? AND expires_at > ?", sessionID, false, time.Now().Unix()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) RevokeSession(ctx context.Context, sessionID uuid.UUID) error {
	return r.DB.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("revoked", true).Error
}

func (r *GormRepo) RevokeUserSessions(ctx context.Context, userID uuid.UUID) error {
	return r.DB.WithContext(ctx).Model(&models.Session{}).
		Where("user_id = ?", userID).
		Update("revoked", true).Error
}
