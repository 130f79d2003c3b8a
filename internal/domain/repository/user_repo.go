package repository

import (
	"github.com/yourusername/gacha-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetAdminByEmail(email string) (*entity.User, error)
	UpdatePassword(userID string, newPassword string) error
}
