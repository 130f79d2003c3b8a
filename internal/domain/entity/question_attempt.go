package entity

import (
	"time"
)

// QuestionAttempt представляет попытку участника ответить на вопрос.
// Журнал только пополняется; уникальный индекс (user_id, question_id)
// гарантирует не более одной попытки на пару даже при конкурентных запросах.
type QuestionAttempt struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"size:64;not null;uniqueIndex:idx_user_question" json:"user_id"`
	QuestionID  uint      `gorm:"not null;uniqueIndex:idx_user_question" json:"question_id"`
	Correct     bool      `gorm:"not null" json:"correct"`
	AttemptedAt time.Time `gorm:"not null;autoCreateTime" json:"attempted_at"`
}

// TableName определяет имя таблицы для GORM
func (QuestionAttempt) TableName() string {
	return "user_question_attempts"
}
