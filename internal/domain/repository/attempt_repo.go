package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/gacha-api/internal/domain/entity"
)

// AttemptRepository определяет методы для журнала попыток.
// Журнал только пополняется; инвариант "не более одной попытки на пару
// (участник, вопрос)" обеспечивается уникальным индексом в БД:
// Create второго писателя завершается ErrAlreadyAnswered.
type AttemptRepository interface {
	// Create записывает попытку внутри переданной транзакции.
	// Возвращает apperrors.ErrAlreadyAnswered при нарушении уникальности.
	Create(tx *gorm.DB, attempt *entity.QuestionAttempt) error
	HasAttempted(userID string, questionID uint) (bool, error)
	CountByUser(userID string) (int64, error)
}
