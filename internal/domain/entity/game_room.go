package entity

import (
	"time"
)

// GameRoom представляет игровую комнату мероприятия.
// Комната владеет своими вопросами, призовыми уровнями и участниками.
type GameRoom struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Code      string    `gorm:"size:10;not null;uniqueIndex" json:"code"` // неизменяем после создания
	AdminID   string    `gorm:"size:64;not null;index" json:"admin_id"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (GameRoom) TableName() string {
	return "game_rooms"
}
