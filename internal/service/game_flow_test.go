package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gacha-api/internal/domain/entity"
	apperrors "github.com/yourusername/gacha-api/internal/pkg/errors"
)

// Сквозной цикл участника: правильный ответ приносит жетон, первое
// вращение его тратит и начисляет THR, второе вращение без жетонов
// отклоняется и ничего не меняет.
func TestGameFlow_AnswerThenSpinTwice(t *testing.T) {
	db, dbmock := newTxTestDB(t)
	// Две транзакции: ответ и первое вращение. Второе вращение
	// отклоняется по балансу до открытия транзакции.
	dbmock.ExpectBegin()
	dbmock.ExpectCommit()
	dbmock.ExpectBegin()
	dbmock.ExpectCommit()

	mockParticipantRepo := new(MockParticipantRepo)
	mockQuestionRepo := new(MockQuestionRepo)
	mockAttemptRepo := new(MockAttemptRepo)
	mockRewardTierRepo := new(MockRewardTierRepo)
	mockSpinTokenRepo := new(MockSpinTokenRepo)
	mockEarningRepo := new(MockEarningRepo)
	mockCacheRepo := new(MockCacheRepo)

	question := &entity.Question{ID: 5, RoomID: 10, QuestionText: "2+2?", CorrectAnswer: "4"}
	tiers := []entity.RewardTier{
		{ID: 1, Name: "Family Prize", Tier: entity.TierGold, Probability: 100, ThrAmount: 40},
	}

	mockParticipantRepo.On("GetByCode", "THR2ABCD").Return(activeParticipant(), nil)
	mockQuestionRepo.On("GetByID", uint(5)).Return(question, nil)
	mockAttemptRepo.On("HasAttempted", "participant_abc", uint(5)).Return(false, nil)
	mockAttemptRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.QuestionAttempt")).Return(nil)
	mockQuestionRepo.On("MarkSolved", mock.Anything, uint(5)).Return(nil)
	mockSpinTokenRepo.On("Grant", mock.Anything, "participant_abc", uint(10)).Return(nil)
	mockCacheRepo.On("Delete", "participant:THR2ABCD:status").Return(nil)

	// Баланс: 1 перед первым вращением, 0 после него и перед вторым
	mockSpinTokenRepo.On("GetBalance", "participant_abc", uint(10)).Return(1, nil).Once()
	mockSpinTokenRepo.On("GetBalance", "participant_abc", uint(10)).Return(0, nil).Once()
	mockSpinTokenRepo.On("GetBalance", "participant_abc", uint(10)).Return(0, nil).Once()
	mockRewardTierRepo.On("GetByRoomID", uint(10)).Return(tiers, nil)
	mockSpinTokenRepo.On("Spend", mock.Anything, "participant_abc", uint(10)).Return(true, nil)
	mockEarningRepo.On("CreateSpin", mock.Anything, mock.AnythingOfType("*entity.ThrSpin")).Return(nil)

	earned := 0
	mockEarningRepo.On("AddToTotal", mock.Anything, "participant_abc", uint(10), 40).
		Run(func(args mock.Arguments) {
			earned += args.Get(3).(int)
		}).
		Return(nil)

	playService := &PlayService{
		participantRepo: mockParticipantRepo,
		questionRepo:    mockQuestionRepo,
		attemptRepo:     mockAttemptRepo,
		spinTokenRepo:   mockSpinTokenRepo,
		earningRepo:     mockEarningRepo,
		cacheRepo:       mockCacheRepo,
		db:              db,
		questionBatch:   5,
	}
	wheelService := &WheelService{
		participantRepo: mockParticipantRepo,
		rewardTierRepo:  mockRewardTierRepo,
		spinTokenRepo:   mockSpinTokenRepo,
		earningRepo:     mockEarningRepo,
		cacheRepo:       mockCacheRepo,
		db:              db,
		random:          func() float64 { return 0.5 },
	}

	answer, err := playService.AnswerQuestion("THR2ABCD", 5, "4")
	require.NoError(t, err, "Правильный ответ должен пройти")
	assert.True(t, answer.TokenGranted, "Правильный ответ должен принести жетон")

	first, err := wheelService.Spin("THR2ABCD")
	require.NoError(t, err, "Первое вращение с жетоном должно пройти")
	assert.Equal(t, 40, first.Amount)
	assert.Equal(t, 0, first.TokensLeft)

	second, err := wheelService.Spin("THR2ABCD")
	require.ErrorIs(t, err, apperrors.ErrInsufficientTokens, "Второе вращение без жетонов отклоняется")
	assert.Nil(t, second)

	// Единственное удачное вращение, начислено ровно 40 THR
	mockSpinTokenRepo.AssertNumberOfCalls(t, "Spend", 1)
	mockEarningRepo.AssertNumberOfCalls(t, "CreateSpin", 1)
	assert.Equal(t, 40, earned)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}
