package repository

import (
	"github.com/yourusername/gacha-api/internal/domain/entity"
)

// RewardTierRepository определяет методы для призовых уровней
type RewardTierRepository interface {
	Create(tier *entity.RewardTier) error
	// GetByRoomID возвращает уровни комнаты строго по возрастанию ID.
	// Порядок обхода фиксирован: от него зависит детерминизм выбора
	// уровня при граничных значениях розыгрыша.
	GetByRoomID(roomID uint) ([]entity.RewardTier, error)
}
