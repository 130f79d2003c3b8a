package entity

import (
	"time"
)

// SpinToken хранит баланс жетонов участника в комнате.
// Запись создаётся лениво при первом правильном ответе.
// Инвариант: tokens никогда не уходит в минус — списание выполняется
// условным UPDATE (tokens > 0), а не чтением с последующей записью.
type SpinToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_user_room_tokens" json:"user_id"`
	RoomID    uint      `gorm:"not null;uniqueIndex:idx_user_room_tokens" json:"room_id"`
	Tokens    int       `gorm:"not null;default:0" json:"tokens"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (SpinToken) TableName() string {
	return "user_spin_tokens"
}
