package repository

import (
	"github.com/OduorSamuuel/codemaster-backend/internal/models"
	"gorm.io/gorm"
)

// Roster orderings. Leaderboard views want descending score, lobby
// views want join order, so the order is a parameter.
type PlayerOrder string

const (
	OrderByJoin  PlayerOrder = "joined_at asc"
	OrderByScore PlayerOrder = "score desc"
)

type PlayerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Create(player *models.Player) error {
	return r.db.Create(player).Error
}

func (r *PlayerRepository) GetByPlayerID(playerID string) (*models.Player, error) {
	var player models.Player

	if err := r.db.First(&player, "player_id = ?", playerID).Error; err != nil {
		return nil, err
	}

	return &player, nil
}

func (r *PlayerRepository) FindByRoom(roomCode string, order PlayerOrder) ([]models.Player, error) {
	var players []models.Player
	err := r.db.Where("room_code = ?", roomCode).
		Order(string(order)).
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

// UpdateScore sets a player's score and returns the updated record.
func (r *PlayerRepository) UpdateScore(playerID string, score int) (*models.Player, error) {
	result := r.db.Model(&models.Player{}).
		Where("player_id = ?", playerID).
		Update("score", score)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.GetByPlayerID(playerID)
}

// Delete removes a player from a room. Deleting an unknown player is a
// no-op: disconnect races produce duplicate removal requests.
func (r *PlayerRepository) Delete(roomCode, playerID string) error {
	return r.db.Delete(&models.Player{}, "room_code = ? AND player_id = ?", roomCode, playerID).Error
}

// AvatarTaken reports whether an avatar is already assigned in a room.
func (r *PlayerRepository) AvatarTaken(roomCode, avatar string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Player{}).
		Where("room_code = ? AND avatar = ?", roomCode, avatar).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
