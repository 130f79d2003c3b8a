package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/gacha-api/internal/domain/entity"
)

// EarningRepo реализует repository.EarningRepository
type EarningRepo struct {
	db *gorm.DB
}

// NewEarningRepo создает новый репозиторий журналов THR
func NewEarningRepo(db *gorm.DB) *EarningRepo {
	return &EarningRepo{db: db}
}

// CreateSpin добавляет запись о вращении внутри переданной транзакции
func (r *EarningRepo) CreateSpin(tx *gorm.DB, spin *entity.ThrSpin) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(spin).Error
}

// AddToTotal увеличивает накопленный итог участника на amount.
// INSERT ... ON CONFLICT DO UPDATE total_amount = total_amount + amount:
// итог монотонно не убывает и не теряет начислений при конкурентных спинах.
func (r *EarningRepo) AddToTotal(tx *gorm.DB, userID string, roomID uint, amount int) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "room_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_amount": gorm.Expr("thr_earnings.total_amount + ?", amount),
			"last_updated": time.Now(),
		}),
	}).Create(&entity.ThrEarning{
		UserID:      userID,
		RoomID:      roomID,
		TotalAmount: amount,
	}).Error
}

// GetTotal возвращает накопленный итог THR участника в комнате.
// Отсутствие записи означает 0: запись создаётся лениво при первом вращении.
func (r *EarningRepo) GetTotal(userID string, roomID uint) (int, error) {
	var earning entity.ThrEarning
	err := r.db.Where("user_id = ? AND room_id = ?", userID, roomID).First(&earning).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return earning.TotalAmount, nil
}

// ListSpins возвращает журнал вращений участника в комнате
func (r *EarningRepo) ListSpins(userID string, roomID uint) ([]entity.ThrSpin, error) {
	var spins []entity.ThrSpin
	err := r.db.Where("user_id = ? AND room_id = ?", userID, roomID).
		Order("id").Find(&spins).Error
	if err != nil {
		return nil, err
	}
	return spins, nil
}
