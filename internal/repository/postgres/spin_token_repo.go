package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/gacha-api/internal/domain/entity"
)

// SpinTokenRepo реализует repository.SpinTokenRepository
type SpinTokenRepo struct {
	db *gorm.DB
}

// NewSpinTokenRepo создает новый репозиторий жетонов
func NewSpinTokenRepo(db *gorm.DB) *SpinTokenRepo {
	return &SpinTokenRepo{db: db}
}

// GetBalance возвращает баланс жетонов участника в комнате.
// Отсутствие записи означает баланс 0: счёт создаётся лениво.
func (r *SpinTokenRepo) GetBalance(userID string, roomID uint) (int, error) {
	var account entity.SpinToken
	err := r.db.Where("user_id = ? AND room_id = ?", userID, roomID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return account.Tokens, nil
}

// Grant увеличивает баланс на 1, создавая счёт с балансом 1 при отсутствии.
// INSERT ... ON CONFLICT DO UPDATE tokens = tokens + 1: один оператор,
// безопасный при конкурентных начислениях.
func (r *SpinTokenRepo) Grant(tx *gorm.DB, userID string, roomID uint) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "room_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"tokens":     gorm.Expr("user_spin_tokens.tokens + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&entity.SpinToken{
		UserID: userID,
		RoomID: roomID,
		Tokens: 1,
	}).Error
}

// Spend выполняет условное списание одного жетона.
// Проверка баланса и декремент — один оператор: два конкурентных вращения
// при балансе 1 не могут оба пройти, баланс не уходит в минус.
func (r *SpinTokenRepo) Spend(tx *gorm.DB, userID string, roomID uint) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.Model(&entity.SpinToken{}).
		Where("user_id = ? AND room_id = ? AND tokens > 0", userID, roomID).
		Updates(map[string]interface{}{
			"tokens":     gorm.Expr("tokens - 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
