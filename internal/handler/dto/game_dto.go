package dto

import (
	"time"

	"github.com/yourusername/gacha-api/internal/domain/entity"
)

// QuestionResponse представляет вопрос в формате для ответа участнику.
// Правильный ответ в DTO отсутствует.
type QuestionResponse struct {
	ID           uint     `json:"id"`
	Text         string   `json:"text"`
	QuestionType string   `json:"question_type"`
	Options      []string `json:"options,omitempty"`
	Tier         string   `json:"tier"`
}

// RoomResponse представляет комнату в формате для ответа администратору
type RoomResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ParticipantResponse представляет сгенерированного участника
type ParticipantResponse struct {
	ID         uint      `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name,omitempty"`
	UniqueCode string    `json:"unique_code"`
	CreatedAt  time.Time `json:"created_at"`
}

// RewardTierResponse представляет призовой уровень колеса
type RewardTierResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Tier        string  `json:"tier"`
	Probability float64 `json:"probability"`
	ThrAmount   int     `json:"thr_amount"`
}

// NewQuestionResponse создает DTO для вопроса
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	return QuestionResponse{
		ID:           q.ID,
		Text:         q.QuestionText,
		QuestionType: q.QuestionType,
		Options:      q.Options,
		Tier:         q.Tier,
	}
}

// NewListQuestionResponse создает DTO для списка вопросов
func NewListQuestionResponse(questions []entity.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, NewQuestionResponse(&questions[i]))
	}
	return out
}

// NewRoomResponse создает DTO для комнаты
func NewRoomResponse(room *entity.GameRoom) *RoomResponse {
	return &RoomResponse{
		ID:        room.ID,
		Name:      room.Name,
		Code:      room.Code,
		Active:    room.Active,
		CreatedAt: room.CreatedAt,
	}
}

// NewListRoomResponse создает DTO для списка комнат
func NewListRoomResponse(rooms []entity.GameRoom) []*RoomResponse {
	out := make([]*RoomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, NewRoomResponse(&rooms[i]))
	}
	return out
}

// NewParticipantResponse создает DTO для участника
func NewParticipantResponse(p *entity.RoomParticipant) *ParticipantResponse {
	resp := &ParticipantResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		UniqueCode: p.UniqueCode,
		CreatedAt:  p.CreatedAt,
	}
	if p.User != nil {
		resp.Name = p.User.Name
	}
	return resp
}

// NewListParticipantResponse создает DTO для списка участников
func NewListParticipantResponse(participants []entity.RoomParticipant) []*ParticipantResponse {
	out := make([]*ParticipantResponse, 0, len(participants))
	for i := range participants {
		out = append(out, NewParticipantResponse(&participants[i]))
	}
	return out
}

// NewRewardTierResponse создает DTO для призового уровня
func NewRewardTierResponse(t *entity.RewardTier) *RewardTierResponse {
	return &RewardTierResponse{
		ID:          t.ID,
		Name:        t.Name,
		Tier:        t.Tier,
		Probability: t.Probability,
		ThrAmount:   t.ThrAmount,
	}
}

// NewListRewardTierResponse создает DTO для списка призовых уровней
func NewListRewardTierResponse(tiers []entity.RewardTier) []*RewardTierResponse {
	out := make([]*RewardTierResponse, 0, len(tiers))
	for i := range tiers {
		out = append(out, NewRewardTierResponse(&tiers[i]))
	}
	return out
}
