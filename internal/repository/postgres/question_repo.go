package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/gacha-api/internal/domain/entity"
	apperrors "github.com/yourusername/gacha-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// CreateBatch создает пакет вопросов в одной транзакции:
// при ошибке на любом вопросе не вставляется ни один
func (r *QuestionRepo) CreateBatch(questions []entity.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&questions).Error
	})
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByRoomID возвращает все вопросы комнаты
func (r *QuestionRepo) GetByRoomID(roomID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Where("room_id = ?", roomID).Order("id").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// GetRandomUnsolved возвращает случайную выборку нерешённых вопросов комнаты.
// ORDER BY RANDOM() достаточно: набор вопросов одной комнаты маленький,
// выборка перезапускаемая и отражает текущее состояние solved.
func (r *QuestionRepo) GetRandomUnsolved(roomID uint, limit int) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Where("room_id = ? AND solved = ?", roomID, false).
		Order("RANDOM()").Limit(limit).Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// MarkSolved помечает вопрос решённым внутри переданной транзакции.
// Повторный вызов не меняет состояние (solved уже true).
func (r *QuestionRepo) MarkSolved(tx *gorm.DB, id uint) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&entity.Question{}).Where("id = ?", id).Update("solved", true).Error
}
