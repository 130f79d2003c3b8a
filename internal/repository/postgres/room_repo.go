package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/gacha-api/internal/domain/entity"
	apperrors "github.com/yourusername/gacha-api/internal/pkg/errors"
)

// RoomRepo реализует repository.RoomRepository
type RoomRepo struct {
	db *gorm.DB
}

// NewRoomRepo создает новый репозиторий игровых комнат
func NewRoomRepo(db *gorm.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Create создает новую комнату
func (r *RoomRepo) Create(room *entity.GameRoom) error {
	return r.db.Create(room).Error
}

// GetByID возвращает комнату по ID
func (r *RoomRepo) GetByID(id uint) (*entity.GameRoom, error) {
	var room entity.GameRoom
	err := r.db.First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// GetByCode возвращает комнату по уникальному коду
func (r *RoomRepo) GetByCode(code string) (*entity.GameRoom, error) {
	var room entity.GameRoom
	err := r.db.Where("code = ?", code).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// ListByAdmin возвращает все комнаты администратора
func (r *RoomRepo) ListByAdmin(adminID string) ([]entity.GameRoom, error) {
	var rooms []entity.GameRoom
	err := r.db.Where("admin_id = ?", adminID).Order("id").Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// SetActive включает или выключает комнату
func (r *RoomRepo) SetActive(id uint, active bool) error {
	result := r.db.Model(&entity.GameRoom{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
