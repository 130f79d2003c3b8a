package service

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/gacha-api/internal/domain/entity"
	"github.com/yourusername/gacha-api/internal/domain/repository"
	apperrors "github.com/yourusername/gacha-api/internal/pkg/errors"
)

// Время жизни кеша статуса участника
const statusCacheTTL = 30 * time.Second

// ParticipantStatus — сводка участника для клиента
type ParticipantStatus struct {
	Name              string `json:"name"`
	RoomName          string `json:"room_name"`
	SpinTokens        int    `json:"spin_tokens"`
	ThrEarned         int    `json:"thr_earned"`
	QuestionsAnswered int64  `json:"questions_answered"`
}

// AnswerResult — итог попытки ответа
type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	TokenGranted  bool   `json:"token_granted"`
}

// PlayService предоставляет игровой цикл участника:
// вход по коду, выдача вопросов, приём ответов, сводка статуса
type PlayService struct {
	participantRepo repository.ParticipantRepository
	questionRepo    repository.QuestionRepository
	attemptRepo     repository.AttemptRepository
	spinTokenRepo   repository.SpinTokenRepository
	earningRepo     repository.EarningRepository
	cacheRepo       repository.CacheRepository
	db              *gorm.DB
	questionBatch   int
}

// NewPlayService создает новый игровой сервис
func NewPlayService(
	participantRepo repository.ParticipantRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	spinTokenRepo repository.SpinTokenRepository,
	earningRepo repository.EarningRepository,
	cacheRepo repository.CacheRepository,
	db *gorm.DB,
	questionBatch int,
) *PlayService {
	if questionBatch <= 0 {
		questionBatch = 5
	}
	return &PlayService{
		participantRepo: participantRepo,
		questionRepo:    questionRepo,
		attemptRepo:     attemptRepo,
		spinTokenRepo:   spinTokenRepo,
		earningRepo:     earningRepo,
		cacheRepo:       cacheRepo,
		db:              db,
		questionBatch:   questionBatch,
	}
}

// resolveParticipant возвращает участника по коду.
// Код из неактивной комнаты отклоняется: комната закрыта администратором.
func (s *PlayService) resolveParticipant(code string) (*entity.RoomParticipant, error) {
	participant, err := s.participantRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if participant.GameRoom == nil {
		return nil, apperrors.ErrNotFound
	}
	if !participant.GameRoom.Active {
		return nil, apperrors.ErrForbidden
	}
	return participant, nil
}

// Join проверяет код участника и возвращает его статус.
// Неверный код возвращает ErrNotFound без уточнения причины.
func (s *PlayService) Join(code string) (*ParticipantStatus, error) {
	participant, err := s.resolveParticipant(code)
	if err != nil {
		return nil, err
	}
	log.Printf("[PlayService] Участник %s вошёл в комнату #%d", participant.UserID, participant.RoomID)
	return s.buildStatus(participant)
}

// GetQuestions возвращает случайную подборку нерешённых вопросов комнаты.
// Размер подборки ограничен настройкой; правильные ответы клиенту не уходят.
func (s *PlayService) GetQuestions(code string) ([]entity.Question, error) {
	participant, err := s.resolveParticipant(code)
	if err != nil {
		return nil, err
	}
	return s.questionRepo.GetRandomUnsolved(participant.RoomID, s.questionBatch)
}

// AnswerQuestion обрабатывает ответ участника.
// Попытка записывается при любом исходе; жетон начисляется и вопрос
// помечается решённым только при правильном ответе. Запись попытки,
// отметка вопроса и начисление жетона выполняются в одной транзакции:
// повторная попытка (в том числе конкурентная) не меняет состояние.
func (s *PlayService) AnswerQuestion(code string, questionID uint, answer string) (*AnswerResult, error) {
	participant, err := s.resolveParticipant(code)
	if err != nil {
		return nil, err
	}

	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}
	// Вопрос чужой комнаты для участника не существует
	if question.RoomID != participant.RoomID {
		return nil, apperrors.ErrNotFound
	}

	// Быстрый отказ без открытия транзакции. Сам инвариант держит
	// уникальный индекс: конкурентный повтор ловится на вставке попытки.
	attempted, err := s.attemptRepo.HasAttempted(participant.UserID, question.ID)
	if err != nil {
		return nil, err
	}
	if attempted {
		return nil, apperrors.ErrAlreadyAnswered
	}

	correct := question.IsCorrect(answer)

	// --- Начало транзакции ---
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			log.Printf("PANIC recovered during AnswerQuestion transaction: %v", r)
		}
	}()

	if tx.Error != nil {
		log.Printf("Error starting transaction in AnswerQuestion: %v", tx.Error)
		return nil, tx.Error
	}

	attempt := &entity.QuestionAttempt{
		UserID:     participant.UserID,
		QuestionID: question.ID,
		Correct:    correct,
	}
	if err := s.attemptRepo.Create(tx, attempt); err != nil {
		tx.Rollback()
		return nil, err
	}

	if correct {
		if err := s.questionRepo.MarkSolved(tx, question.ID); err != nil {
			tx.Rollback()
			log.Printf("Error marking question solved in transaction: %v", err)
			return nil, fmt.Errorf("failed to mark question solved: %w", err)
		}
		if err := s.spinTokenRepo.Grant(tx, participant.UserID, participant.RoomID); err != nil {
			tx.Rollback()
			log.Printf("Error granting spin token in transaction: %v", err)
			return nil, fmt.Errorf("failed to grant spin token: %w", err)
		}
	}

	// --- Коммит транзакции ---
	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing transaction in AnswerQuestion: %v", err)
		return nil, err
	}

	s.invalidateStatus(code)

	log.Printf("[PlayService] Ответ участника %s на вопрос #%d: correct=%t", participant.UserID, question.ID, correct)
	return &AnswerResult{
		Correct:       correct,
		CorrectAnswer: question.CorrectAnswer,
		TokenGranted:  correct,
	}, nil
}

// GetStatus возвращает сводку участника.
// Сводка кешируется на короткое время и сбрасывается после ответа и вращения.
func (s *PlayService) GetStatus(code string) (*ParticipantStatus, error) {
	cacheKey := statusCacheKey(code)
	var cached ParticipantStatus
	if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
		return &cached, nil
	}

	participant, err := s.resolveParticipant(code)
	if err != nil {
		return nil, err
	}

	status, err := s.buildStatus(participant)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepo.SetJSON(cacheKey, status, statusCacheTTL); err != nil {
		// Кеш не критичен: ошибку только логируем
		log.Printf("[PlayService] Не удалось закешировать статус участника %s: %v", participant.UserID, err)
	}
	return status, nil
}

func (s *PlayService) buildStatus(participant *entity.RoomParticipant) (*ParticipantStatus, error) {
	tokens, err := s.spinTokenRepo.GetBalance(participant.UserID, participant.RoomID)
	if err != nil {
		return nil, err
	}
	earned, err := s.earningRepo.GetTotal(participant.UserID, participant.RoomID)
	if err != nil {
		return nil, err
	}
	answered, err := s.attemptRepo.CountByUser(participant.UserID)
	if err != nil {
		return nil, err
	}

	name := ""
	if participant.User != nil {
		name = participant.User.Name
	}
	roomName := ""
	if participant.GameRoom != nil {
		roomName = participant.GameRoom.Name
	}

	return &ParticipantStatus{
		Name:              name,
		RoomName:          roomName,
		SpinTokens:        tokens,
		ThrEarned:         earned,
		QuestionsAnswered: answered,
	}, nil
}

// invalidateStatus сбрасывает кеш статуса после изменения баланса
func (s *PlayService) invalidateStatus(code string) {
	if err := s.cacheRepo.Delete(statusCacheKey(code)); err != nil {
		log.Printf("[PlayService] Не удалось сбросить кеш статуса по коду %s: %v", code, err)
	}
}

func statusCacheKey(code string) string {
	return fmt.Sprintf("participant:%s:status", code)
}
