package repository

import (
	"github.com/yourusername/gacha-api/internal/domain/entity"
)

// RoomRepository определяет методы для работы с игровыми комнатами
type RoomRepository interface {
	Create(room *entity.GameRoom) error
	GetByID(id uint) (*entity.GameRoom, error)
	GetByCode(code string) (*entity.GameRoom, error)
	ListByAdmin(adminID string) ([]entity.GameRoom, error)
	SetActive(id uint, active bool) error
}
