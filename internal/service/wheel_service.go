package service

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/gacha-api/internal/domain/entity"
	"github.com/yourusername/gacha-api/internal/domain/repository"
	apperrors "github.com/yourusername/gacha-api/internal/pkg/errors"
)

// RandomSource возвращает равномерное число из [0, 1).
// Вынесен в тип, чтобы тесты могли подставить детерминированный источник.
type RandomSource func() float64

// SpinResult — итог одного вращения колеса
type SpinResult struct {
	TierID     uint   `json:"tier_id"`
	TierName   string `json:"tier_name"`
	Tier       string `json:"tier"`
	Amount     int    `json:"amount"`
	TokensLeft int    `json:"tokens_left"`
}

// WheelService реализует розыгрыш на призовом колесе:
// списание жетона, взвешенный выбор уровня, запись в журнал, начисление THR
type WheelService struct {
	participantRepo repository.ParticipantRepository
	rewardTierRepo  repository.RewardTierRepository
	spinTokenRepo   repository.SpinTokenRepository
	earningRepo     repository.EarningRepository
	cacheRepo       repository.CacheRepository
	db              *gorm.DB
	random          RandomSource
}

// NewWheelService создает новый сервис колеса
func NewWheelService(
	participantRepo repository.ParticipantRepository,
	rewardTierRepo repository.RewardTierRepository,
	spinTokenRepo repository.SpinTokenRepository,
	earningRepo repository.EarningRepository,
	cacheRepo repository.CacheRepository,
	db *gorm.DB,
	random RandomSource,
) *WheelService {
	if random == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		random = rng.Float64
	}
	return &WheelService{
		participantRepo: participantRepo,
		rewardTierRepo:  rewardTierRepo,
		spinTokenRepo:   spinTokenRepo,
		earningRepo:     earningRepo,
		cacheRepo:       cacheRepo,
		db:              db,
		random:          random,
	}
}

// Spin выполняет одно вращение колеса для участника.
// Комната без призовых уровней отклоняется до каких-либо списаний.
// Списание жетона, запись вращения и начисление THR выполняются в одной
// транзакции: при нехватке жетонов состояние не меняется.
func (s *WheelService) Spin(code string) (*SpinResult, error) {
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

	// Баланс проверяется раньше конфигурации колеса. Быстрый отказ без
	// транзакции; решающей проверкой при гонке остаётся условное списание.
	balance, err := s.spinTokenRepo.GetBalance(participant.UserID, participant.RoomID)
	if err != nil {
		return nil, err
	}
	if balance <= 0 {
		return nil, apperrors.ErrInsufficientTokens
	}

	tiers, err := s.rewardTierRepo.GetByRoomID(participant.RoomID)
	if err != nil {
		return nil, err
	}
	if len(tiers) == 0 {
		return nil, apperrors.ErrNoRewardTiers
	}

	tier := pickTier(tiers, s.random())

	// --- Начало транзакции ---
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			log.Printf("PANIC recovered during Spin transaction: %v", r)
		}
	}()

	if tx.Error != nil {
		log.Printf("Error starting transaction in Spin: %v", tx.Error)
		return nil, tx.Error
	}

	spent, err := s.spinTokenRepo.Spend(tx, participant.UserID, participant.RoomID)
	if err != nil {
		tx.Rollback()
		log.Printf("Error spending spin token in transaction: %v", err)
		return nil, fmt.Errorf("failed to spend spin token: %w", err)
	}
	if !spent {
		tx.Rollback()
		return nil, apperrors.ErrInsufficientTokens
	}

	spin := &entity.ThrSpin{
		UserID:       participant.UserID,
		RoomID:       participant.RoomID,
		RewardTierID: tier.ID,
		Amount:       tier.ThrAmount,
	}
	if err := s.earningRepo.CreateSpin(tx, spin); err != nil {
		tx.Rollback()
		log.Printf("Error recording spin in transaction: %v", err)
		return nil, fmt.Errorf("failed to record spin: %w", err)
	}

	if err := s.earningRepo.AddToTotal(tx, participant.UserID, participant.RoomID, tier.ThrAmount); err != nil {
		tx.Rollback()
		log.Printf("Error adding THR earnings in transaction: %v", err)
		return nil, fmt.Errorf("failed to add THR earnings: %w", err)
	}

	// --- Коммит транзакции ---
	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing transaction in Spin: %v", err)
		return nil, err
	}

	s.invalidateStatus(code)

	tokensLeft, err := s.spinTokenRepo.GetBalance(participant.UserID, participant.RoomID)
	if err != nil {
		// Баланс уже изменён и записан; ошибка чтения не отменяет вращение
		log.Printf("[WheelService] Не удалось прочитать остаток жетонов участника %s: %v", participant.UserID, err)
		tokensLeft = 0
	}

	log.Printf("[WheelService] Участник %s выиграл уровень '%s' (#%d), THR=%d", participant.UserID, tier.Name, tier.ID, tier.ThrAmount)
	return &SpinResult{
		TierID:     tier.ID,
		TierName:   tier.Name,
		Tier:       tier.Tier,
		Amount:     tier.ThrAmount,
		TokensLeft: tokensLeft,
	}, nil
}

// pickTier выбирает уровень взвешенным розыгрышем.
// random берётся из [0, 1) и масштабируется на сумму весов; уровни
// обходятся по возрастанию ID, выбирается первый, у которого накопленный
// вес не меньше точки розыгрыша. random=0 выбирает первый уровень
// с ненулевым весом.
func pickTier(tiers []entity.RewardTier, random float64) entity.RewardTier {
	var totalWeight float64
	for _, t := range tiers {
		totalWeight += t.Probability
	}

	point := random * totalWeight
	var cumulative float64
	for _, t := range tiers {
		cumulative += t.Probability
		if cumulative >= point && t.Probability > 0 {
			return t
		}
	}
	// Достижимо только при погрешности плавающей точки на последнем шаге
	return tiers[len(tiers)-1]
}

// invalidateStatus сбрасывает кеш статуса после изменения баланса
func (s *WheelService) invalidateStatus(code string) {
	if err := s.cacheRepo.Delete(statusCacheKey(code)); err != nil {
		log.Printf("[WheelService] Не удалось сбросить кеш статуса по коду %s: %v", code, err)
	}
}
