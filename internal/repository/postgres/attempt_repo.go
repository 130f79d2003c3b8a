package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourusername/gacha-api/internal/domain/entity"
	apperrors "github.com/yourusername/gacha-api/internal/pkg/errors"
)

// Код ошибки PostgreSQL "unique_violation"
const pgUniqueViolation = "23505"

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return true
	}
	return false
}

// AttemptRepo реализует repository.AttemptRepository
type AttemptRepo struct {
	db *gorm.DB
}

// NewAttemptRepo создает новый репозиторий попыток
func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// Create записывает попытку. Гонка "проверил-вставил" двух конкурентных
// запросов разрешается уникальным индексом (user_id, question_id):
// проигравший писатель получает ErrAlreadyAnswered, а не дубликат строки.
func (r *AttemptRepo) Create(tx *gorm.DB, attempt *entity.QuestionAttempt) error {
	if tx == nil {
		tx = r.db
	}
	err := tx.Create(attempt).Error
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrAlreadyAnswered
		}
		return err
	}
	return nil
}

// HasAttempted проверяет, отвечал ли участник на вопрос.
// Используется для быстрого отказа до открытия транзакции; сам инвариант
// держит уникальный индекс, а не эта проверка.
func (r *AttemptRepo) HasAttempted(userID string, questionID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.QuestionAttempt{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByUser возвращает количество попыток участника
func (r *AttemptRepo) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&entity.QuestionAttempt{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
