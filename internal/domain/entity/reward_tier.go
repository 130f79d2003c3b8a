package entity

import (
	"fmt"
	"time"

	apperrors "github.com/yourusername/gacha-api/internal/pkg/errors"
)

// RewardTier представляет призовой уровень колеса в комнате.
// Probability — относительный вес: колесо нормализует по сумме весов
// фактически настроенных уровней, поэтому сумма не обязана равняться 100.
type RewardTier struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RoomID      uint      `gorm:"not null;index" json:"room_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Tier        string    `gorm:"size:20;not null" json:"tier"`
	Probability float64   `gorm:"type:decimal(5,2);not null" json:"probability"`
	ThrAmount   int       `gorm:"not null" json:"thr_amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (RewardTier) TableName() string {
	return "gacha_reward_tiers"
}

// Validate проверяет границы, заданные для админского ввода:
// вес в (0, 100], сумма выигрыша строго положительная.
func (t *RewardTier) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: reward tier name is required", apperrors.ErrValidation)
	}
	switch t.Tier {
	case TierBronze, TierSilver, TierGold, TierCustom:
	default:
		return fmt.Errorf("%w: unknown tier %q", apperrors.ErrValidation, t.Tier)
	}
	if t.Probability <= 0 || t.Probability > 100 {
		return fmt.Errorf("%w: probability must be in (0, 100]", apperrors.ErrValidation)
	}
	if t.ThrAmount <= 0 {
		return fmt.Errorf("%w: THR amount must be a positive number", apperrors.ErrValidation)
	}
	return nil
}
