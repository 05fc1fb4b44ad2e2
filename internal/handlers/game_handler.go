// internal/handlers/game_handler.go

package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/OduorSamuuel/codemaster-backend/internal/repository"
	"github.com/OduorSamuuel/codemaster-backend/internal/service"
	"github.com/OduorSamuuel/codemaster-backend/internal/websocket"
)

// Client-to-server message types
const (
	EventJoinRoom       = "join-room"
	EventQuestionTimeUp = "question-time-up"
	EventScoreUpdate    = "score-update"
	EventRemovePlayer   = "remove-player"
	EventTimeSync       = "time-sync"
)

// Request structures
type JoinRoomData struct {
	RoomCode string `json:"room_code"`
}

type TimeUpData struct {
	RoomCode string `json:"room_code"`
}

type ScoreUpdateData struct {
	PlayerID string `json:"player_id"`
	NewScore int    `json:"new_score"`
	RoomCode string `json:"room_code"`
}

type RemovePlayerData struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
}

type TimeSyncData struct {
	RoomCode   string `json:"room_code"`
	ClientTime int64  `json:"client_time"`
}

type GameHandler struct {
	gameService   *service.GameService
	playerService *service.PlayerService
	hub           *websocket.Hub
}

func NewGameHandler(
	gameService *service.GameService,
	playerService *service.PlayerService,
	hub *websocket.Hub,
) *GameHandler {
	return &GameHandler{
		gameService:   gameService,
		playerService: playerService,
		hub:           hub,
	}
}

// HandleMessage processes incoming WebSocket messages. Failures are
// reported only to the acting client; other room members never see them.
func (h *GameHandler) HandleMessage(client *websocket.Client, message []byte) error {
	var event struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(message, &event); err != nil {
		return h.sendError(client, "Invalid message format")
	}

	log.Printf("Received message type: %s from client: %s", event.Type, client.ID)

	switch event.Type {
	case EventJoinRoom:
		return h.handleJoinRoom(client, event.Data)
	case EventQuestionTimeUp:
		return h.handleQuestionTimeUp(client, event.Data)
	case EventScoreUpdate:
		return h.handleScoreUpdate(client, event.Data)
	case EventRemovePlayer:
		return h.handleRemovePlayer(client, event.Data)
	case EventTimeSync:
		return h.handleTimeSync(client, event.Data)
	default:
		return h.sendError(client, "Unknown event type")
	}
}

// handleJoinRoom subscribes a connection to a room channel. The joiner
// gets the current roster immediately, and when a game is live it also
// gets a synchronized snapshot so late joiners never see stale or zero
// state.
func (h *GameHandler) handleJoinRoom(client *websocket.Client, data json.RawMessage) error {
	var joinData JoinRoomData
	if err := json.Unmarshal(data, &joinData); err != nil {
		return h.sendError(client, "Invalid join data format")
	}

	client.RoomCode = joinData.RoomCode
	h.hub.Register <- client

	players, err := h.playerService.ListPlayers(joinData.RoomCode, repository.OrderByScore)
	if err != nil {
		return h.sendError(client, "Failed to load players")
	}

	if err := h.hub.SendToClient(client, websocket.GameEvent{
		Type: "roster-sync",
		Data: players,
	}); err != nil {
		return err
	}

	if state, live := h.gameService.HandleConnect(joinData.RoomCode, client.ID); live {
		return h.hub.SendToClient(client, websocket.GameEvent{
			Type: "session-state",
			Data: state,
		})
	}

	return nil
}

func (h *GameHandler) handleQuestionTimeUp(client *websocket.Client, data json.RawMessage) error {
	var timeUpData TimeUpData
	if err := json.Unmarshal(data, &timeUpData); err != nil {
		return h.sendError(client, "Invalid time up data format")
	}

	if err := h.gameService.QuestionTimeUp(timeUpData.RoomCode); err != nil {
		return h.sendError(client, err.Error())
	}

	return nil
}

func (h *GameHandler) handleScoreUpdate(client *websocket.Client, data json.RawMessage) error {
	var scoreData ScoreUpdateData
	if err := json.Unmarshal(data, &scoreData); err != nil {
		return h.sendError(client, "Invalid score data format")
	}

	if _, err := h.playerService.UpdateScore(scoreData.PlayerID, scoreData.NewScore, scoreData.RoomCode); err != nil {
		return h.sendError(client, err.Error())
	}

	return nil
}

func (h *GameHandler) handleRemovePlayer(client *websocket.Client, data json.RawMessage) error {
	var removeData RemovePlayerData
	if err := json.Unmarshal(data, &removeData); err != nil {
		return h.sendError(client, "Invalid remove data format")
	}

	if err := h.playerService.Remove(removeData.RoomCode, removeData.PlayerID); err != nil {
		return h.sendError(client, err.Error())
	}

	return nil
}

// handleTimeSync answers a client's resynchronization probe with the
// authoritative clock view, echoing the client timestamp so the client
// can compute its skew.
func (h *GameHandler) handleTimeSync(client *websocket.Client, data json.RawMessage) error {
	var syncData TimeSyncData
	if err := json.Unmarshal(data, &syncData); err != nil {
		return h.sendError(client, "Invalid time sync format")
	}

	state, err := h.gameService.Snapshot(syncData.RoomCode)
	if err != nil {
		return h.sendError(client, err.Error())
	}

	return h.hub.SendToClient(client, websocket.GameEvent{
		Type: "time-sync-response",
		Data: map[string]interface{}{
			"client_time":         syncData.ClientTime,
			"server_time":         time.Now().UnixMilli(),
			"time_left":           state.TimeLeft,
			"current_question":    state.CurrentQuestion,
			"question_start_time": state.QuestionStartTime,
			"start_time":          state.StartTime,
		},
	})
}

func (h *GameHandler) sendError(client *websocket.Client, message string) error {
	return h.hub.SendToClient(client, websocket.GameEvent{
		Type:  "error",
		Error: message,
	})
}
