package entity

import (
	"time"
)

// ThrEarning хранит накопленную сумму THR участника в комнате.
// Запись создаётся лениво при первом вращении; TotalAmount монотонно
// не убывает и обновляется выражением total_amount + ? внутри
// транзакции вращения.
type ThrEarning struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"size:64;not null;uniqueIndex:idx_user_room_earnings" json:"user_id"`
	RoomID      uint      `gorm:"not null;uniqueIndex:idx_user_room_earnings" json:"room_id"`
	TotalAmount int       `gorm:"not null;default:0" json:"total_amount"`
	LastUpdated time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}

// TableName определяет имя таблицы для GORM
func (ThrEarning) TableName() string {
	return "thr_earnings"
}
