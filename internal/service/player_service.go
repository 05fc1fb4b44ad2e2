package service

import (
	"errors"
	"log"

	"github.com/OduorSamuuel/codemaster-backend/internal/models"
	"github.com/OduorSamuuel/codemaster-backend/internal/repository"
	"github.com/OduorSamuuel/codemaster-backend/internal/websocket"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlayerStore is the persistence surface the registry needs for players.
type PlayerStore interface {
	Create(player *models.Player) error
	GetByPlayerID(playerID string) (*models.Player, error)
	FindByRoom(roomCode string, order repository.PlayerOrder) ([]models.Player, error)
	UpdateScore(playerID string, score int) (*models.Player, error)
	Delete(roomCode, playerID string) error
	AvatarTaken(roomCode, avatar string) (bool, error)
}

// PlayerService tracks the players of each room and broadcasts roster
// changes. Persistence failures surface as request failures; the live
// roster and the persisted records are eventually, not atomically,
// consistent.
type PlayerService struct {
	rooms   RoomStore
	players PlayerStore
	hub     Broadcaster
	avatars *AvatarGenerator
}

func NewPlayerService(rooms RoomStore, players PlayerStore, hub Broadcaster, avatars *AvatarGenerator) *PlayerService {
	return &PlayerService{
		rooms:   rooms,
		players: players,
		hub:     hub,
		avatars: avatars,
	}
}

// Join admits a new player to a room, assigning a server-issued player
// ID and an avatar unique within the room. Every join allocates a fresh
// Player; rejoining under the same display name does not reuse records.
func (s *PlayerService) Join(roomCode, displayName string) (*models.Player, error) {
	if _, err := s.rooms.GetByCode(roomCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	avatar, err := s.avatars.Generate(func(a string) (bool, error) {
		return s.players.AvatarTaken(roomCode, a)
	})
	if err != nil {
		return nil, err
	}

	player := &models.Player{
		PlayerID: uuid.New().String(),
		Name:     displayName,
		Avatar:   avatar,
		RoomCode: roomCode,
		Score:    0,
	}

	if err := s.players.Create(player); err != nil {
		return nil, err
	}

	log.Printf("Player %s (%s) joined room %s", player.PlayerID, displayName, roomCode)

	s.broadcastRoster(roomCode, repository.OrderByJoin)
	return player, nil
}

// ListPlayers returns a room's roster in the requested order.
func (s *PlayerService) ListPlayers(roomCode string, order repository.PlayerOrder) ([]models.Player, error) {
	return s.players.FindByRoom(roomCode, order)
}

// UpdateScore sets a player's score and broadcasts the single delta
// followed by the fully resorted roster, so clients never reconcile
// from a partial update.
func (s *PlayerService) UpdateScore(playerID string, newScore int, roomCode string) (*models.Player, error) {
	player, err := s.players.UpdateScore(playerID, newScore)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	log.Printf("Player %s score updated to %d in room %s", playerID, newScore, roomCode)

	s.hub.BroadcastToRoom(roomCode, websocket.GameEvent{
		Type: "score-delta",
		Data: map[string]interface{}{
			"player_id": playerID,
			"new_score": newScore,
		},
	})
	s.broadcastRoster(roomCode, repository.OrderByScore)

	return player, nil
}

// Remove deletes a player from a room. Removing an unknown player is a
// no-op: disconnect races may produce duplicate removal requests.
func (s *PlayerService) Remove(roomCode, playerID string) error {
	if err := s.players.Delete(roomCode, playerID); err != nil {
		return err
	}

	log.Printf("Player %s removed from room %s", playerID, roomCode)

	s.hub.BroadcastToRoom(roomCode, websocket.GameEvent{
		Type: "player-removed",
		Data: map[string]interface{}{
			"player_id": playerID,
		},
	})
	s.broadcastRoster(roomCode, repository.OrderByJoin)
	return nil
}

func (s *PlayerService) broadcastRoster(roomCode string, order repository.PlayerOrder) {
	roster, err := s.players.FindByRoom(roomCode, order)
	if err != nil {
		log.Printf("Failed to load roster for room %s: %v", roomCode, err)
		return
	}

	s.hub.BroadcastToRoom(roomCode, websocket.GameEvent{
		Type: "roster-sync",
		Data: roster,
	})
}
