package entity

import (
	"time"
)

// ThrSpin представляет одно разрешённое вращение колеса.
// Журнал только пополняется: сумма Amount по журналу всегда равна
// накопленному итогу в thr_earnings.
type ThrSpin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"size:64;not null;index" json:"user_id"`
	RoomID       uint      `gorm:"not null;index" json:"room_id"`
	RewardTierID uint      `gorm:"not null" json:"reward_tier_id"`
	Amount       int       `gorm:"not null" json:"amount"`
	SpunAt       time.Time `gorm:"not null;autoCreateTime" json:"spun_at"`
}

// TableName определяет имя таблицы для GORM
func (ThrSpin) TableName() string {
	return "thr_spins"
}
