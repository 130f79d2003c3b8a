package repository

import (
	"github.com/yourusername/gacha-api/internal/domain/entity"
)

// PasswordResetRepository определяет методы для токенов сброса пароля
type PasswordResetRepository interface {
	Create(token *entity.PasswordResetToken) error
	GetByHash(tokenHash string) (*entity.PasswordResetToken, error)
	MarkUsed(id uint) error
	DeleteExpired() (int64, error)
}
