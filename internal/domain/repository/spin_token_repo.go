package repository

import (
	"gorm.io/gorm"
)

// SpinTokenRepository определяет методы для счёта жетонов
type SpinTokenRepository interface {
	GetBalance(userID string, roomID uint) (int, error)
	// Grant увеличивает баланс на 1, создавая счёт с балансом 1,
	// если записи ещё нет. Выполняется внутри переданной транзакции.
	Grant(tx *gorm.DB, userID string, roomID uint) error
	// Spend выполняет условное списание одного жетона:
	// UPDATE ... SET tokens = tokens - 1 WHERE tokens > 0.
	// Возвращает false, если списывать было нечего (баланс не изменён).
	Spend(tx *gorm.DB, userID string, roomID uint) (bool, error)
}
