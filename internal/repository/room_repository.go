package repository

import (
	"github.com/OduorSamuuel/codemaster-backend/internal/models"
	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(room *models.Room) error {
	return r.db.Create(room).Error
}

func (r *RoomRepository) GetByCode(code string) (*models.Room, error) {
	var room models.Room

	if err := r.db.First(&room, "code = ?", code).Error; err != nil {
		return nil, err
	}

	return &room, nil
}

// ListByOwner returns the rooms an account has authored, code and name only.
func (r *RoomRepository) ListByOwner(createdBy string) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.Select("code", "name").
		Where("created_by = ?", createdBy).
		Order("created_at asc").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}
