package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/gacha-api/internal/domain/entity"
)

// RewardTierRepo реализует repository.RewardTierRepository
type RewardTierRepo struct {
	db *gorm.DB
}

// NewRewardTierRepo создает новый репозиторий призовых уровней
func NewRewardTierRepo(db *gorm.DB) *RewardTierRepo {
	return &RewardTierRepo{db: db}
}

// Create создает новый призовой уровень
func (r *RewardTierRepo) Create(tier *entity.RewardTier) error {
	return r.db.Create(tier).Error
}

// GetByRoomID возвращает призовые уровни комнаты по возрастанию ID.
// Порядок фиксирован: обход колеса должен быть детерминированным.
func (r *RewardTierRepo) GetByRoomID(roomID uint) ([]entity.RewardTier, error) {
	var tiers []entity.RewardTier
	err := r.db.Where("room_id = ?", roomID).Order("id ASC").Find(&tiers).Error
	if err != nil {
		return nil, err
	}
	return tiers, nil
}
