package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yourusername/gacha-api/internal/domain/entity"
	"github.com/yourusername/gacha-api/internal/domain/repository"
)

// ============================================================================
// Транзакционная база для тестов сервисов
// ============================================================================

// newTxTestDB возвращает gorm.DB поверх sqlmock: Begin/Commit/Rollback
// проходят через настоящий драйвер, а запросы к данным выполняют моки
// репозиториев, принимающие tx
func newTxTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, dbmock, err := sqlmock.New()
	require.NoError(t, err, "sqlmock должен создаться без ошибок")
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err, "gorm должен открыться поверх sqlmock")
	return db, dbmock
}

// ============================================================================
// Общие моки репозиториев для тестов сервисов
// ============================================================================

// MockUserRepo реализует repository.UserRepository
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id string) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetAdminByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) UpdatePassword(userID string, newPassword string) error {
	args := m.Called(userID, newPassword)
	return args.Error(0)
}

// MockRoomRepo реализует repository.RoomRepository
type MockRoomRepo struct {
	mock.Mock
}

func (m *MockRoomRepo) Create(room *entity.GameRoom) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockRoomRepo) GetByID(id uint) (*entity.GameRoom, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GameRoom), args.Error(1)
}

func (m *MockRoomRepo) GetByCode(code string) (*entity.GameRoom, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GameRoom), args.Error(1)
}

func (m *MockRoomRepo) ListByAdmin(adminID string) ([]entity.GameRoom, error) {
	args := m.Called(adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.GameRoom), args.Error(1)
}

func (m *MockRoomRepo) SetActive(id uint, active bool) error {
	args := m.Called(id, active)
	return args.Error(0)
}

// MockParticipantRepo реализует repository.ParticipantRepository
type MockParticipantRepo struct {
	mock.Mock
}

func (m *MockParticipantRepo) Create(participant *entity.RoomParticipant) error {
	args := m.Called(participant)
	return args.Error(0)
}

func (m *MockParticipantRepo) GetByCode(code string) (*entity.RoomParticipant, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RoomParticipant), args.Error(1)
}

func (m *MockParticipantRepo) ListByRoom(roomID uint) ([]entity.RoomParticipant, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RoomParticipant), args.Error(1)
}

func (m *MockParticipantRepo) ListRoomResults(roomID uint) ([]repository.RoomResult, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.RoomResult), args.Error(1)
}

// MockQuestionRepo реализует repository.QuestionRepository
type MockQuestionRepo struct {
	mock.Mock
}

func (m *MockQuestionRepo) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepo) CreateBatch(questions []entity.Question) error {
	args := m.Called(questions)
	return args.Error(0)
}

func (m *MockQuestionRepo) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) GetByRoomID(roomID uint) ([]entity.Question, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) GetRandomUnsolved(roomID uint, limit int) ([]entity.Question, error) {
	args := m.Called(roomID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) MarkSolved(tx *gorm.DB, id uint) error {
	args := m.Called(tx, id)
	return args.Error(0)
}

// MockAttemptRepo реализует repository.AttemptRepository
type MockAttemptRepo struct {
	mock.Mock
}

func (m *MockAttemptRepo) Create(tx *gorm.DB, attempt *entity.QuestionAttempt) error {
	args := m.Called(tx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepo) HasAttempted(userID string, questionID uint) (bool, error) {
	args := m.Called(userID, questionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttemptRepo) CountByUser(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSpinTokenRepo реализует repository.SpinTokenRepository
type MockSpinTokenRepo struct {
	mock.Mock
}

func (m *MockSpinTokenRepo) GetBalance(userID string, roomID uint) (int, error) {
	args := m.Called(userID, roomID)
	return args.Int(0), args.Error(1)
}

func (m *MockSpinTokenRepo) Grant(tx *gorm.DB, userID string, roomID uint) error {
	args := m.Called(tx, userID, roomID)
	return args.Error(0)
}

func (m *MockSpinTokenRepo) Spend(tx *gorm.DB, userID string, roomID uint) (bool, error) {
	args := m.Called(tx, userID, roomID)
	return args.Bool(0), args.Error(1)
}

// MockRewardTierRepo реализует repository.RewardTierRepository
type MockRewardTierRepo struct {
	mock.Mock
}

func (m *MockRewardTierRepo) Create(tier *entity.RewardTier) error {
	args := m.Called(tier)
	return args.Error(0)
}

func (m *MockRewardTierRepo) GetByRoomID(roomID uint) ([]entity.RewardTier, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RewardTier), args.Error(1)
}

// MockEarningRepo реализует repository.EarningRepository
type MockEarningRepo struct {
	mock.Mock
}

func (m *MockEarningRepo) CreateSpin(tx *gorm.DB, spin *entity.ThrSpin) error {
	args := m.Called(tx, spin)
	return args.Error(0)
}

func (m *MockEarningRepo) AddToTotal(tx *gorm.DB, userID string, roomID uint, amount int) error {
	args := m.Called(tx, userID, roomID, amount)
	return args.Error(0)
}

func (m *MockEarningRepo) GetTotal(userID string, roomID uint) (int, error) {
	args := m.Called(userID, roomID)
	return args.Int(0), args.Error(1)
}

func (m *MockEarningRepo) ListSpins(userID string, roomID uint) ([]entity.ThrSpin, error) {
	args := m.Called(userID, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ThrSpin), args.Error(1)
}

// MockCacheRepo реализует repository.CacheRepository
type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepo) Increment(key string) (int64, error) {
	args := m.Called(key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepo) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

// MockPasswordResetRepo реализует repository.PasswordResetRepository
type MockPasswordResetRepo struct {
	mock.Mock
}

func (m *MockPasswordResetRepo) Create(token *entity.PasswordResetToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockPasswordResetRepo) GetByHash(tokenHash string) (*entity.PasswordResetToken, error) {
	args := m.Called(tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PasswordResetToken), args.Error(1)
}

func (m *MockPasswordResetRepo) MarkUsed(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPasswordResetRepo) DeleteExpired() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailService реализует EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendPasswordReset(ctx context.Context, toEmail, resetLink string) error {
	args := m.Called(ctx, toEmail, resetLink)
	return args.Error(0)
}
