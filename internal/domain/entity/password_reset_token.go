package entity

import (
	"time"
)

// PasswordResetToken — одноразовый токен сброса пароля администратора.
// В базе хранится только SHA-256 хеш, сам токен уходит в письме.
type PasswordResetToken struct {
	ID        uint       `gorm:"primaryKey" json:"-"`
	UserID    string     `gorm:"size:64;not null;index" json:"-"`
	TokenHash string     `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"-"`
	UsedAt    *time.Time `json:"-"`
	CreatedAt time.Time  `json:"-"`
}

// TableName определяет имя таблицы для GORM
func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// IsUsable проверяет, что токен ещё не использован и не истёк
func (t *PasswordResetToken) IsUsable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
