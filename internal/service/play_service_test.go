package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gacha-api/internal/domain/entity"
	apperrors "github.com/yourusername/gacha-api/internal/pkg/errors"
)

// ============================================================================
// Тесты PlayService
// ============================================================================

func createTestPlayService(
	participantRepo *MockParticipantRepo,
	questionRepo *MockQuestionRepo,
	attemptRepo *MockAttemptRepo,
	spinTokenRepo *MockSpinTokenRepo,
	earningRepo *MockEarningRepo,
	cacheRepo *MockCacheRepo,
) *PlayService {
	return &PlayService{
		participantRepo: participantRepo,
		questionRepo:    questionRepo,
		attemptRepo:     attemptRepo,
		spinTokenRepo:   spinTokenRepo,
		earningRepo:     earningRepo,
		cacheRepo:       cacheRepo,
		db:              nil, // nil для этих тестов
		questionBatch:   5,
	}
}

func TestPlayService_Join_Success(t *testing.T) {
	mockParticipantRepo := new(MockParticipantRepo)
	mockAttemptRepo := new(MockAttemptRepo)
	mockSpinTokenRepo := new(MockSpinTokenRepo)
	mockEarningRepo := new(MockEarningRepo)

	mockParticipantRepo.On("GetByCode", "THR2ABCD").Return(activeParticipant(), nil)
	mockSpinTokenRepo.On("GetBalance", "participant_abc", uint(10)).Return(2, nil)
	mockEarningRepo.On("GetTotal", "participant_abc", uint(10)).Return(35, nil)
	mockAttemptRepo.On("CountByUser", "participant_abc").Return(int64(4), nil)

	service := createTestPlayService(mockParticipantRepo, nil, mockAttemptRepo, mockSpinTokenRepo, mockEarningRepo, nil)

	status, err := service.Join("THR2ABCD")

	require.NoError(t, err, "Вход по действующему коду должен быть успешным")
	assert.Equal(t, "Guest 1", status.Name)
	assert.Equal(t, "Family Event", status.RoomName)
	assert.Equal(t, 2, status.SpinTokens)
	assert.Equal(t, 35, status.ThrEarned)
	assert.Equal(t, int64(4), status.QuestionsAnswered)
	mockParticipantRepo.AssertExpectations(t)
}

func TestPlayService_Join_UnknownCode(t *testing.T) {
	mockParticipantRepo := new(MockParticipantRepo)
	mockParticipantRepo.On("GetByCode", "WRONG123").Return(nil, apperrors.ErrNotFound)

	service := createTestPlayService(mockParticipantRepo, nil, nil, nil, nil, nil)

	status, err := service.Join("WRONG123")

	require.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, status)
	mockParticipantRepo.AssertExpectations(t)
}

func TestPlayService_Join_InactiveRoom(t *testing.T) {
	participant := activeParticipant()
	participant.GameRoom.Active = false

	mockParticipantRepo := new(MockParticipantRepo)
	mockParticipantRepo.On("GetByCode", "THR2ABCD").Return(participant, nil)

	service := createTestPlayService(mockParticipantRepo, nil, nil, nil, nil, nil)

	status, err := service.Join("THR2ABCD")

	require.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Nil(t, status)
	mockParticipantRepo.AssertExpectations(t)
}

func TestPlayService_GetQuestions_LimitsBatch(t *testing.T) {
	mockParticipantRepo := new(MockParticipantRepo)
	mockQuestionRepo := new(MockQuestionRepo)

	expectedQuestions := []entity.Question{
		{ID: 1, RoomID: 10, QuestionText: "2+2?", Tier: entity.TierBronze},
		{ID: 2, RoomID: 10, QuestionText: "Столица Франции?", Tier: entity.TierSilver},
	}

	mockParticipantRepo.On("GetByCode", "THR2ABCD").Return(activeParticipant(), nil)
	// Размер подборки берётся из настройки сервиса
	mockQuestionRepo.On("GetRandomUnsolved", uint(10), 5).Return(expectedQuestions, nil)

	service := createTestPlayService(mockParticipantRepo, mockQuestionRepo, nil, nil, nil, nil)

	questions, err := service.GetQuestions("THR2ABCD")

	require.NoError(t, err)
	assert.Len(t, questions, 2)
	mockParticipantRepo.AssertExpectations(t)
	mockQuestionRepo.AssertExpectations(t)
}

func TestPlayService_AnswerQuestion_ForeignRoomQuestion(t *testing.T) {
	// Вопрос чужой комнаты для участника не существует
	mockParticipantRepo := new(MockParticipantRepo)
	mockQuestionRepo := new(MockQuestionRepo)

	foreignQuestion := &entity.Question{ID: 99, RoomID: 777, QuestionText: "?", CorrectAnswer: "x"}

	mockParticipantRepo.On("GetByCode", "THR2ABCD").Return(activeParticipant(), nil)
	mockQuestionRepo.On("GetByID", uint(99)).Return(foreignQuestion, nil)

	service := createTestPlayService(mockParticipantRepo, mockQuestionRepo, nil, nil, nil, nil)

	result, err := service.AnswerQuestion("THR2ABCD", 99, "x")

	require.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, result)
	mockParticipantRepo.AssertExpectations(t)
	mockQuestionRepo.AssertExpectations(t)
}

func TestPlayService_AnswerQuestion_AlreadyAnswered(t *testing.T) {
	// Повторная попытка отклоняется до открытия транзакции,
	// состояние не меняется
	mockParticipantRepo := new(MockParticipantRepo)
	mockQuestionRepo := new(MockQuestionRepo)
	mockAttemptRepo := new(MockAttemptRepo)
	mockSpinTokenRepo := new(MockSpinTokenRepo)

	question := &entity.Question{ID: 5, RoomID: 10, QuestionText: "2+2?", CorrectAnswer: "4"}

	mockParticipantRepo.On("GetByCode", "THR2ABCD").Return(activeParticipant(), nil)
	mockQuestionRepo.On("GetByID", uint(5)).Return(question, nil)
	mockAttemptRepo.On("HasAttempted", "participant_abc", uint(5)).Return(true, nil)

	service := createTestPlayService(mockParticipantRepo, mockQuestionRepo, mockAttemptRepo, mockSpinTokenRepo, nil, nil)

	result, err := service.AnswerQuestion("THR2ABCD", 5, "4")

	require.ErrorIs(t, err, apperrors.ErrAlreadyAnswered)
	assert.Nil(t, result)
	mockAttemptRepo.AssertNotCalled(t, "Create")
	mockSpinTokenRepo.AssertNotCalled(t, "Grant")
	mockQuestionRepo.AssertNotCalled(t, "MarkSolved")
}

func TestPlayService_GetStatus_CacheHit(t *testing.T) {
	// Закешированный статус возвращается без обращения к БД
	mockParticipantRepo := new(MockParticipantRepo)
	mockCacheRepo := new(MockCacheRepo)

	cached := ParticipantStatus{
		Name:              "Guest 1",
		RoomName:          "Family Event",
		SpinTokens:        1,
		ThrEarned:         20,
		QuestionsAnswered: 3,
	}

	mockCacheRepo.On("GetJSON", "participant:THR2ABCD:status", mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(1).(*ParticipantStatus)
			*dest = cached
		}).
		Return(nil)

	service := createTestPlayService(mockParticipantRepo, nil, nil, nil, nil, mockCacheRepo)

	status, err := service.GetStatus("THR2ABCD")

	require.NoError(t, err)
	assert.Equal(t, cached, *status)
	mockParticipantRepo.AssertNotCalled(t, "GetByCode")
	mockCacheRepo.AssertExpectations(t)
}

func TestPlayService_GetStatus_CacheMiss(t *testing.T) {
	mockParticipantRepo := new(MockParticipantRepo)
	mockAttemptRepo := new(MockAttemptRepo)
	mockSpinTokenRepo := new(MockSpinTokenRepo)
	mockEarningRepo := new(MockEarningRepo)
	mockCacheRepo := new(MockCacheRepo)

	mockCacheRepo.On("GetJSON", "participant:THR2ABCD:status", mock.Anything).Return(apperrors.ErrNotFound)
	mockParticipantRepo.On("GetByCode", "THR2ABCD").Return(activeParticipant(), nil)
	mockSpinTokenRepo.On("GetBalance", "participant_abc", uint(10)).Return(0, nil)
	mockEarningRepo.On("GetTotal", "participant_abc", uint(10)).Return(0, nil)
	mockAttemptRepo.On("CountByUser", "participant_abc").Return(int64(0), nil)
	mockCacheRepo.On("SetJSON", "participant:THR2ABCD:status", mock.Anything, statusCacheTTL).Return(nil)

	service := createTestPlayService(mockParticipantRepo, nil, mockAttemptRepo, mockSpinTokenRepo, mockEarningRepo, mockCacheRepo)

	status, err := service.GetStatus("THR2ABCD")

	require.NoError(t, err)
	assert.Equal(t, "Guest 1", status.Name)
	assert.Equal(t, 0, status.SpinTokens)
	mockCacheRepo.AssertExpectations(t)
}

// ============================================================================
// Транзакционный цикл AnswerQuestion: попытка, отметка вопроса, жетон
// ============================================================================

func TestPlayService_AnswerQuestion_CorrectGrantsToken(t *testing.T) {
	db, dbmock := newTxTestDB(t)
	dbmock.ExpectBegin()
	dbmock.ExpectCommit()

	mockParticipantRepo := new(MockParticipantRepo)
	mockQuestionRepo := new(MockQuestionRepo)
	mockAttemptRepo := new(MockAttemptRepo)
	mockSpinTokenRepo := new(MockSpinTokenRepo)
	mockCacheRepo := new(MockCacheRepo)

	question := &entity.Question{ID: 5, RoomID: 10, QuestionText: "2+2?", CorrectAnswer: "4"}

	mockParticipantRepo.On("GetByCode", "THR2ABCD").Return(activeParticipant(), nil)
	mockQuestionRepo.On("GetByID", uint(5)).Return(question, nil)
	mockAttemptRepo.On("HasAttempted", "participant_abc", uint(5)).Return(false, nil)

	var attempt *entity.QuestionAttempt
	mockAttemptRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.QuestionAttempt")).
		Run(func(args mock.Arguments) {
			attempt = args.Get(1).(*entity.QuestionAttempt)
		}).
		Return(nil)
	mockQuestionRepo.On("MarkSolved", mock.Anything, uint(5)).Return(nil)
	mockSpinTokenRepo.On("Grant", mock.Anything, "participant_abc", uint(10)).Return(nil)
	mockCacheRepo.On("Delete", "participant:THR2ABCD:status").Return(nil)

	service := &PlayService{
		participantRepo: mockParticipantRepo,
		questionRepo:    mockQuestionRepo,
		attemptRepo:     mockAttemptRepo,
		spinTokenRepo:   mockSpinTokenRepo,
		cacheRepo:       mockCacheRepo,
		db:              db,
		questionBatch:   5,
	}

	result, err := service.AnswerQuestion("THR2ABCD", 5, "4")

	require.NoError(t, err, "Первый правильный ответ должен пройти")
	assert.True(t, result.Correct)
	assert.True(t, result.TokenGranted, "Первый правильный ответ должен принести жетон")
	assert.Equal(t, "4", result.CorrectAnswer)

	require.NotNil(t, attempt, "Попытка должна быть записана")
	assert.True(t, attempt.Correct)

	mockQuestionRepo.AssertExpectations(t)
	mockSpinTokenRepo.AssertExpectations(t)
	assert.NoError(t, dbmock.ExpectationsWereMet(), "Транзакция должна завершиться коммитом")
}

func TestPlayService_AnswerQuestion_IncorrectNoToken(t *testing.T) {
	// Неверный ответ фиксируется в попытках, но жетон не начисляется
	// и вопрос остаётся нерешённым
	db, dbmock := newTxTestDB(t)
	dbmock.ExpectBegin()
	dbmock.ExpectCommit()

	mockParticipantRepo := new(MockParticipantRepo)
	mockQuestionRepo := new(MockQuestionRepo)
	mockAttemptRepo := new(MockAttemptRepo)
	mockSpinTokenRepo := new(MockSpinTokenRepo)
	mockCacheRepo := new(MockCacheRepo)

	question := &entity.Question{ID: 5, RoomID: 10, QuestionText: "2+2?", CorrectAnswer: "4"}

	mockParticipantRepo.On("GetByCode", "THR2ABCD").Return(activeParticipant(), nil)
	mockQuestionRepo.On("GetByID", uint(5)).Return(question, nil)
	mockAttemptRepo.On("HasAttempted", "participant_abc", uint(5)).Return(false, nil)

	var attempt *entity.QuestionAttempt
	mockAttemptRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.QuestionAttempt")).
		Run(func(args mock.Arguments) {
			attempt = args.Get(1).(*entity.QuestionAttempt)
		}).
		Return(nil)
	mockCacheRepo.On("Delete", "participant:THR2ABCD:status").Return(nil)

	service := &PlayService{
		participantRepo: mockParticipantRepo,
		questionRepo:    mockQuestionRepo,
		attemptRepo:     mockAttemptRepo,
		spinTokenRepo:   mockSpinTokenRepo,
		cacheRepo:       mockCacheRepo,
		db:              db,
		questionBatch:   5,
	}

	result, err := service.AnswerQuestion("THR2ABCD", 5, "5")

	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.False(t, result.TokenGranted)
	assert.Equal(t, "4", result.CorrectAnswer, "Правильный ответ раскрывается после попытки")

	require.NotNil(t, attempt)
	assert.False(t, attempt.Correct)

	mockSpinTokenRepo.AssertNotCalled(t, "Grant")
	mockQuestionRepo.AssertNotCalled(t, "MarkSolved")
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestPlayService_AnswerQuestion_DuplicateInsertRollsBack(t *testing.T) {
	// Гонка двух одинаковых ответов: предварительная проверка попытку
	// не увидела, но вставка упала на уникальном индексе. Транзакция
	// откатывается, жетон не начисляется
	db, dbmock := newTxTestDB(t)
	dbmock.ExpectBegin()
	dbmock.ExpectRollback()

	mockParticipantRepo := new(MockParticipantRepo)
	mockQuestionRepo := new(MockQuestionRepo)
	mockAttemptRepo := new(MockAttemptRepo)
	mockSpinTokenRepo := new(MockSpinTokenRepo)

	question := &entity.Question{ID: 5, RoomID: 10, QuestionText: "2+2?", CorrectAnswer: "4"}

	mockParticipantRepo.On("GetByCode", "THR2ABCD").Return(activeParticipant(), nil)
	mockQuestionRepo.On("GetByID", uint(5)).Return(question, nil)
	mockAttemptRepo.On("HasAttempted", "participant_abc", uint(5)).Return(false, nil)
	mockAttemptRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.QuestionAttempt")).
		Return(apperrors.ErrAlreadyAnswered)

	service := &PlayService{
		participantRepo: mockParticipantRepo,
		questionRepo:    mockQuestionRepo,
		attemptRepo:     mockAttemptRepo,
		spinTokenRepo:   mockSpinTokenRepo,
		db:              db,
		questionBatch:   5,
	}

	result, err := service.AnswerQuestion("THR2ABCD", 5, "4")

	require.ErrorIs(t, err, apperrors.ErrAlreadyAnswered)
	assert.Nil(t, result)
	mockSpinTokenRepo.AssertNotCalled(t, "Grant")
	mockQuestionRepo.AssertNotCalled(t, "MarkSolved")
	assert.NoError(t, dbmock.ExpectationsWereMet(), "Транзакция должна завершиться откатом")
}
