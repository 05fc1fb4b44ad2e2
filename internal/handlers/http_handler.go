// internal/handlers/http_handler.go

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/OduorSamuuel/codemaster-backend/internal/models"
	"github.com/OduorSamuuel/codemaster-backend/internal/repository"
	"github.com/OduorSamuuel/codemaster-backend/internal/service"
)

type HTTPHandler struct {
	roomService   *service.RoomService
	playerService *service.PlayerService
	gameService   *service.GameService
}

func NewHTTPHandler(
	roomService *service.RoomService,
	playerService *service.PlayerService,
	gameService *service.GameService,
) *HTTPHandler {
	return &HTTPHandler{
		roomService:   roomService,
		playerService: playerService,
		gameService:   gameService,
	}
}

type CreateRoomRequest struct {
	RoomCode  string            `json:"room_code" binding:"required"`
	QuizName  string            `json:"quiz_name" binding:"required"`
	CreatedBy string            `json:"created_by" binding:"required"`
	Questions []models.Question `json:"questions" binding:"required"`
}

type JoinRoomRequest struct {
	RoomCode   string `json:"room_code" binding:"required"`
	PlayerName string `json:"player_name" binding:"required"`
}

type StartGameRequest struct {
	RoomCode string `json:"room_code" binding:"required"`
}

type UpdateScoreRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Score    *int   `json:"score" binding:"required"`
	RoomCode string `json:"room_code" binding:"required"`
}

// CreateRoom registers a quiz room under a caller-supplied code.
func (h *HTTPHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	room, err := h.roomService.CreateRoom(req.RoomCode, req.QuizName, req.CreatedBy, req.Questions)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// GetRoom returns the quiz definition for a room code.
func (h *HTTPHandler) GetRoom(c *gin.Context) {
	room, err := h.roomService.GetRoom(c.Param("code"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, room)
}

// ListRooms returns code and name of the rooms an account authored.
func (h *HTTPHandler) ListRooms(c *gin.Context) {
	createdBy := c.Query("created_by")
	if createdBy == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "created_by is required"})
		return
	}

	rooms, err := h.roomService.ListOwnerRooms(createdBy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// JoinRoom admits a player and triggers a roster broadcast.
func (h *HTTPHandler) JoinRoom(c *gin.Context) {
	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	player, err := h.playerService.Join(req.RoomCode, req.PlayerName)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Player joined", "player": player})
}

// GetPlayers returns a room's roster in join order.
func (h *HTTPHandler) GetPlayers(c *gin.Context) {
	players, err := h.playerService.ListPlayers(c.Param("code"), repository.OrderByJoin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"players": players})
}

// StartGame initializes the live session and returns the initial snapshot.
func (h *HTTPHandler) StartGame(c *gin.Context) {
	var req StartGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room code is required"})
		return
	}

	state, err := h.gameService.StartGame(req.RoomCode)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game started successfully", "game_state": state})
}

// UpdateScore sets a player's score and triggers the delta and roster
// broadcasts.
func (h *HTTPHandler) UpdateScore(c *gin.Context) {
	var req UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	player, err := h.playerService.UpdateScore(req.PlayerID, *req.Score, req.RoomCode)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "score": player.Score, "player": player})
}

// statusFor maps the service failure taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrRoomNotFound), errors.Is(err, service.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateCode), errors.Is(err, service.ErrGameInProgress):
		return http.StatusConflict
	case errors.Is(err, service.ErrAvatarExhausted):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrNoQuestions), errors.Is(err, service.ErrNoActiveSession):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	api := r.Group("/api/game")
	{
		api.POST("/rooms", h.CreateRoom)
		api.GET("/rooms", h.ListRooms)
		api.GET("/rooms/:code", h.GetRoom)
		api.GET("/players/:code", h.GetPlayers)
		api.POST("/join", h.JoinRoom)
		api.POST("/start", h.StartGame)
		api.POST("/score", h.UpdateScore)
	}
}
