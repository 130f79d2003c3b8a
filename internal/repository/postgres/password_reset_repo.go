package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/gacha-api/internal/domain/entity"
	apperrors "github.com/yourusername/gacha-api/internal/pkg/errors"
)

// PasswordResetRepo реализует repository.PasswordResetRepository
type PasswordResetRepo struct {
	db *gorm.DB
}

// NewPasswordResetRepo создает новый репозиторий токенов сброса пароля
func NewPasswordResetRepo(db *gorm.DB) *PasswordResetRepo {
	return &PasswordResetRepo{db: db}
}

// Create сохраняет токен сброса пароля
func (r *PasswordResetRepo) Create(token *entity.PasswordResetToken) error {
	return r.db.Create(token).Error
}

// GetByHash возвращает токен по его SHA-256 хешу
func (r *PasswordResetRepo) GetByHash(tokenHash string) (*entity.PasswordResetToken, error) {
	var token entity.PasswordResetToken
	err := r.db.Where("token_hash = ?", tokenHash).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

// MarkUsed помечает токен использованным
func (r *PasswordResetRepo) MarkUsed(id uint) error {
	now := time.Now()
	return r.db.Model(&entity.PasswordResetToken{}).
		Where("id = ?", id).
		Update("used_at", &now).Error
}

// DeleteExpired удаляет истекшие токены, возвращает количество удалённых
func (r *PasswordResetRepo) DeleteExpired() (int64, error) {
	result := r.db.Where("expires_at < ?", time.Now()).Delete(&entity.PasswordResetToken{})
	return result.RowsAffected, result.Error
}
