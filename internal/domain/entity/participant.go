package entity

import (
	"time"
)

// RoomParticipant связывает пользователя с комнатой через уникальный код.
// Код раздаётся участнику (например, на карточке) и служит его "сессией":
// сервер не хранит никакого состояния сверх этого кода.
type RoomParticipant struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RoomID     uint      `gorm:"not null;index" json:"room_id"`
	UserID     string    `gorm:"size:64;not null;index" json:"user_id"`
	UniqueCode string    `gorm:"size:10;not null;uniqueIndex" json:"unique_code"`
	CreatedAt  time.Time `json:"created_at"`

	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GameRoom *GameRoom `gorm:"foreignKey:RoomID" json:"game_room,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (RoomParticipant) TableName() string {
	return "room_participants"
}
