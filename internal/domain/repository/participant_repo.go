package repository

import (
	"github.com/yourusername/gacha-api/internal/domain/entity"
)

// RoomResult — агрегированная строка итогов комнаты для админ-отчёта.
type RoomResult struct {
	UserID            string `json:"user_id"`
	Name              string `json:"name"`
	UniqueCode        string `json:"unique_code"`
	QuestionsAnswered int    `json:"questions_answered"`
	TokensLeft        int    `json:"tokens_left"`
	TotalEarned       int    `json:"total_earned"`
}

// ParticipantRepository определяет методы для работы с участниками комнат
type ParticipantRepository interface {
	Create(participant *entity.RoomParticipant) error
	// GetByCode возвращает участника по его уникальному коду вместе
	// с пользователем и комнатой (User, GameRoom предзагружены).
	GetByCode(code string) (*entity.RoomParticipant, error)
	ListByRoom(roomID uint) ([]entity.RoomParticipant, error)
	// ListRoomResults возвращает итоги по всем участникам комнаты:
	// отвечено вопросов, остаток жетонов, заработано THR.
	ListRoomResults(roomID uint) ([]RoomResult, error)
}
