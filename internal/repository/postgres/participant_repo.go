package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/gacha-api/internal/domain/entity"
	"github.com/yourusername/gacha-api/internal/domain/repository"
	apperrors "github.com/yourusername/gacha-api/internal/pkg/errors"
)

// ParticipantRepo реализует repository.ParticipantRepository
type ParticipantRepo struct {
	db *gorm.DB
}

// NewParticipantRepo создает новый репозиторий участников
func NewParticipantRepo(db *gorm.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

// Create создает запись участника комнаты
func (r *ParticipantRepo) Create(participant *entity.RoomParticipant) error {
	return r.db.Create(participant).Error
}

// GetByCode возвращает участника по уникальному коду
// вместе с пользователем и комнатой
func (r *ParticipantRepo) GetByCode(code string) (*entity.RoomParticipant, error) {
	var participant entity.RoomParticipant
	err := r.db.Preload("User").Preload("GameRoom").
		Where("unique_code = ?", code).First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// ListByRoom возвращает всех участников комнаты
func (r *ParticipantRepo) ListByRoom(roomID uint) ([]entity.RoomParticipant, error) {
	var participants []entity.RoomParticipant
	err := r.db.Preload("User").Where("room_id = ?", roomID).Order("id").Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// ListRoomResults возвращает агрегированные итоги комнаты:
// по каждому участнику — количество попыток, остаток жетонов и сумма THR.
// LEFT JOIN: счета жетонов и итогов создаются лениво и могут отсутствовать.
func (r *ParticipantRepo) ListRoomResults(roomID uint) ([]repository.RoomResult, error) {
	var results []repository.RoomResult
	err := r.db.Table("room_participants rp").
		Select(`
			rp.user_id,
			u.name,
			rp.unique_code,
			COUNT(DISTINCT a.id) AS questions_answered,
			COALESCE(MAX(st.tokens), 0) AS tokens_left,
			COALESCE(MAX(e.total_amount), 0) AS total_earned
		`).
		Joins("JOIN users u ON u.id = rp.user_id").
		Joins("LEFT JOIN user_question_attempts a ON a.user_id = rp.user_id").
		Joins("LEFT JOIN user_spin_tokens st ON st.user_id = rp.user_id AND st.room_id = rp.room_id").
		Joins("LEFT JOIN thr_earnings e ON e.user_id = rp.user_id AND e.room_id = rp.room_id").
		Where("rp.room_id = ?", roomID).
		Group("rp.user_id, u.name, rp.unique_code").
		Order("total_earned DESC, rp.unique_code").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
