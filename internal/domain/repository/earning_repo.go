package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/gacha-api/internal/domain/entity"
)

// EarningRepository определяет методы для журнала вращений и итогов THR
type EarningRepository interface {
	// CreateSpin добавляет запись о вращении внутри переданной транзакции.
	CreateSpin(tx *gorm.DB, spin *entity.ThrSpin) error
	// AddToTotal увеличивает накопленный итог на amount выражением
	// total_amount + ?, создавая запись при её отсутствии.
	// Выполняется внутри переданной транзакции.
	AddToTotal(tx *gorm.DB, userID string, roomID uint, amount int) error
	GetTotal(userID string, roomID uint) (int, error)
	ListSpins(userID string, roomID uint) ([]entity.ThrSpin, error)
}
