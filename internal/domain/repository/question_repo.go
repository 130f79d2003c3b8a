package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/gacha-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	Create(question *entity.Question) error
	// CreateBatch вставляет пакет вопросов по принципу "всё или ничего".
	CreateBatch(questions []entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	GetByRoomID(roomID uint) ([]entity.Question, error)
	// GetRandomUnsolved возвращает случайную выборку нерешённых вопросов
	// комнаты (размер <= limit). Выборка перезапускаемая: каждый вызов
	// отражает текущее состояние solved, порядок не стабилен.
	GetRandomUnsolved(roomID uint, limit int) ([]entity.Question, error)
	// MarkSolved помечает вопрос решённым. Идемпотентен на уровне
	// хранилища; оркестратор вызывает его только для первого правильного
	// ответа. Выполняется внутри переданной транзакции.
	MarkSolved(tx *gorm.DB, id uint) error
}
