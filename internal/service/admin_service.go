package service

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/yourusername/gacha-api/internal/domain/entity"
	"github.com/yourusername/gacha-api/internal/domain/repository"
	"github.com/yourusername/gacha-api/internal/pkg/codegen"
	apperrors "github.com/yourusername/gacha-api/internal/pkg/errors"
)

const (
	// Длина кода комнаты
	roomCodeLength = 6
	// Полная длина кода участника вместе с префиксом
	participantCodeLength = 8
	// Максимум участников за одну генерацию
	maxParticipantsPerBatch = 100
	// Сколько раз перегенерировать код при коллизии
	codeRetryLimit = 5
)

// AdminService предоставляет операции администратора:
// комнаты, вопросы, призовые уровни, генерация участников, итоги
type AdminService struct {
	roomRepo        repository.RoomRepository
	questionRepo    repository.QuestionRepository
	rewardTierRepo  repository.RewardTierRepository
	participantRepo repository.ParticipantRepository
	userRepo        repository.UserRepository
}

// NewAdminService создает новый административный сервис
func NewAdminService(
	roomRepo repository.RoomRepository,
	questionRepo repository.QuestionRepository,
	rewardTierRepo repository.RewardTierRepository,
	participantRepo repository.ParticipantRepository,
	userRepo repository.UserRepository,
) *AdminService {
	return &AdminService{
		roomRepo:        roomRepo,
		questionRepo:    questionRepo,
		rewardTierRepo:  rewardTierRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
	}
}

// getOwnedRoom возвращает комнату, если она принадлежит администратору.
// Чужая комната возвращает ErrForbidden, отсутствующая — ErrNotFound.
func (s *AdminService) getOwnedRoom(adminID string, roomID uint) (*entity.GameRoom, error) {
	room, err := s.roomRepo.GetByID(roomID)
	if err != nil {
		return nil, err
	}
	if room.AdminID != adminID {
		return nil, apperrors.ErrForbidden
	}
	return room, nil
}

// CreateRoom создает новую игровую комнату со сгенерированным кодом.
// При коллизии кода генерация повторяется ограниченное число раз.
func (s *AdminService) CreateRoom(adminID, name string) (*entity.GameRoom, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: room name is required", apperrors.ErrValidation)
	}

	for i := 0; i < codeRetryLimit; i++ {
		code := codegen.Code(roomCodeLength)
		if _, err := s.roomRepo.GetByCode(code); err == nil {
			continue
		}

		room := &entity.GameRoom{
			Name:    name,
			Code:    code,
			AdminID: adminID,
			Active:  true,
		}
		if err := s.roomRepo.Create(room); err != nil {
			return nil, err
		}
		log.Printf("[AdminService] Админ %s создал комнату #%d (код %s)", adminID, room.ID, room.Code)
		return room, nil
	}
	return nil, fmt.Errorf("failed to generate unique room code after %d attempts", codeRetryLimit)
}

// ListRooms возвращает комнаты администратора
func (s *AdminService) ListRooms(adminID string) ([]entity.GameRoom, error) {
	return s.roomRepo.ListByAdmin(adminID)
}

// GetRoom возвращает комнату администратора
func (s *AdminService) GetRoom(adminID string, roomID uint) (*entity.GameRoom, error) {
	return s.getOwnedRoom(adminID, roomID)
}

// SetRoomActive открывает или закрывает комнату.
// В закрытой комнате коды участников перестают действовать.
func (s *AdminService) SetRoomActive(adminID string, roomID uint, active bool) error {
	if _, err := s.getOwnedRoom(adminID, roomID); err != nil {
		return err
	}
	if err := s.roomRepo.SetActive(roomID, active); err != nil {
		return err
	}
	log.Printf("[AdminService] Комната #%d переведена в active=%t", roomID, active)
	return nil
}

// CreateQuestion добавляет вопрос в комнату администратора
func (s *AdminService) CreateQuestion(adminID string, roomID uint, question *entity.Question) (*entity.Question, error) {
	if _, err := s.getOwnedRoom(adminID, roomID); err != nil {
		return nil, err
	}
	question.RoomID = roomID
	question.Solved = false
	if err := question.Validate(); err != nil {
		return nil, err
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

// CreateQuestionsBulk добавляет пакет вопросов по принципу "всё или ничего":
// ошибка валидации любого вопроса отклоняет весь пакет
func (s *AdminService) CreateQuestionsBulk(adminID string, roomID uint, questions []entity.Question) ([]entity.Question, error) {
	if _, err := s.getOwnedRoom(adminID, roomID); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: questions list is empty", apperrors.ErrValidation)
	}

	for i := range questions {
		questions[i].RoomID = roomID
		questions[i].Solved = false
		if err := questions[i].Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	if err := s.questionRepo.CreateBatch(questions); err != nil {
		return nil, err
	}
	log.Printf("[AdminService] В комнату #%d добавлено %d вопросов", roomID, len(questions))
	return questions, nil
}

// ListQuestions возвращает вопросы комнаты администратора
func (s *AdminService) ListQuestions(adminID string, roomID uint) ([]entity.Question, error) {
	if _, err := s.getOwnedRoom(adminID, roomID); err != nil {
		return nil, err
	}
	return s.questionRepo.GetByRoomID(roomID)
}

// CreateRewardTier добавляет призовой уровень колеса
func (s *AdminService) CreateRewardTier(adminID string, roomID uint, tier *entity.RewardTier) (*entity.RewardTier, error) {
	if _, err := s.getOwnedRoom(adminID, roomID); err != nil {
		return nil, err
	}
	tier.RoomID = roomID
	if err := tier.Validate(); err != nil {
		return nil, err
	}
	if err := s.rewardTierRepo.Create(tier); err != nil {
		return nil, err
	}
	return tier, nil
}

// ListRewardTiers возвращает призовые уровни комнаты администратора
func (s *AdminService) ListRewardTiers(adminID string, roomID uint) ([]entity.RewardTier, error) {
	if _, err := s.getOwnedRoom(adminID, roomID); err != nil {
		return nil, err
	}
	return s.rewardTierRepo.GetByRoomID(roomID)
}

// GenerateParticipants создает count участников комнаты с уникальными
// кодами входа. Для каждого создается пользователь без учётных данных:
// участник входит только по коду.
func (s *AdminService) GenerateParticipants(adminID string, roomID uint, count int, prefix string) ([]entity.RoomParticipant, error) {
	if _, err := s.getOwnedRoom(adminID, roomID); err != nil {
		return nil, err
	}
	if count < 1 || count > maxParticipantsPerBatch {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", apperrors.ErrValidation, maxParticipantsPerBatch)
	}

	participants := make([]entity.RoomParticipant, 0, count)
	for i := 0; i < count; i++ {
		user := &entity.User{
			ID:   fmt.Sprintf("participant_%s", uuid.NewString()),
			Name: fmt.Sprintf("Participant %d", i+1),
			Role: entity.RoleParticipant,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}

		participant, err := s.createParticipantWithCode(roomID, user.ID, prefix)
		if err != nil {
			return nil, err
		}
		participants = append(participants, *participant)
	}

	log.Printf("[AdminService] В комнате #%d сгенерировано %d участников", roomID, count)
	return participants, nil
}

// createParticipantWithCode создает участника, перегенерируя код при коллизии
func (s *AdminService) createParticipantWithCode(roomID uint, userID, prefix string) (*entity.RoomParticipant, error) {
	for i := 0; i < codeRetryLimit; i++ {
		code := codegen.CodeWithPrefix(prefix, participantCodeLength)
		if _, err := s.participantRepo.GetByCode(code); err == nil {
			continue
		}

		participant := &entity.RoomParticipant{
			RoomID:     roomID,
			UserID:     userID,
			UniqueCode: code,
		}
		if err := s.participantRepo.Create(participant); err != nil {
			return nil, err
		}
		return participant, nil
	}
	return nil, fmt.Errorf("failed to generate unique participant code after %d attempts", codeRetryLimit)
}

// ListParticipants возвращает участников комнаты администратора
func (s *AdminService) ListParticipants(adminID string, roomID uint) ([]entity.RoomParticipant, error) {
	if _, err := s.getOwnedRoom(adminID, roomID); err != nil {
		return nil, err
	}
	return s.participantRepo.ListByRoom(roomID)
}

// RoomResults возвращает агрегированные итоги комнаты
func (s *AdminService) RoomResults(adminID string, roomID uint) ([]repository.RoomResult, error) {
	if _, err := s.getOwnedRoom(adminID, roomID); err != nil {
		return nil, err
	}
	return s.participantRepo.ListRoomResults(roomID)
}
