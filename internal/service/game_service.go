// internal/service/game_service.go

package service

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/OduorSamuuel/codemaster-backend/internal/models"
	"github.com/OduorSamuuel/codemaster-backend/internal/websocket"
	"gorm.io/gorm"
)

// RoomStore is the persistence surface the game needs for rooms.
type RoomStore interface {
	Create(room *models.Room) error
	GetByCode(code string) (*models.Room, error)
	ListByOwner(createdBy string) ([]models.Room, error)
}

// Broadcaster pushes room-scoped events to subscribed connections.
type Broadcaster interface {
	BroadcastToRoom(roomCode string, event websocket.GameEvent)
}

// RoomSession is the transient in-memory record of an in-progress game.
// Sessions are not persisted: an in-flight game is lost on restart.
type RoomSession struct {
	RoomCode          string
	Active            bool
	Revealing         bool
	CurrentQuestion   int
	TotalQuestions    int
	StartTime         time.Time
	QuestionStartTime time.Time
	LastSignalAt      time.Time

	// Connection IDs currently subscribed to the room. Diagnostic only;
	// no game decision gates on connection count.
	Connected map[string]struct{}
}

// SessionState is the synchronized snapshot sent on start, on late join
// and on resync. Timestamps are unix milliseconds; ServerTime lets
// clients compute their clock skew locally.
type SessionState struct {
	Status            string `json:"status"`
	CurrentQuestion   int    `json:"current_question"`
	TimeLeft          int    `json:"time_left"`
	TotalQuestions    int    `json:"total_questions"`
	StartTime         int64  `json:"start_time"`
	QuestionStartTime int64  `json:"question_start_time"`
	ServerTime        int64  `json:"server_time"`
}

// GameService owns the mapping from room code to live session. All session
// mutation happens under one mutex, so session fields are never
// observed half-updated.
type GameService struct {
	rooms RoomStore
	hub   Broadcaster

	questionTime int // seconds per question
	revealDelay  time.Duration

	mu           sync.Mutex
	sessions     map[string]*RoomSession
	revealTimers map[string]*time.Timer

	nowFn func() time.Time
}

func NewGameService(rooms RoomStore, hub Broadcaster, questionTime int, revealDelay time.Duration) *GameService {
	return &GameService{
		rooms:        rooms,
		hub:          hub,
		questionTime: questionTime,
		revealDelay:  revealDelay,
		sessions:     make(map[string]*RoomSession),
		revealTimers: make(map[string]*time.Timer),
		nowFn:        time.Now,
	}
}

// TimeRemaining derives the seconds left on a question from its stored
// start instant. Deriving from timestamps instead of a ticking counter
// is what lets a client resynchronize no matter when it connects.
func TimeRemaining(questionStart, now time.Time, questionTime int) int {
	elapsed := int(now.Sub(questionStart) / time.Second)
	remaining := questionTime - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// StartGame creates the live session for a room and broadcasts the
// initial state. Fails if the room is unknown, has no questions, or
// already has a session under its code.
func (s *GameService) StartGame(roomCode string) (*SessionState, error) {
	room, err := s.rooms.GetByCode(roomCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if len(room.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	s.mu.Lock()
	if _, exists := s.sessions[roomCode]; exists {
		s.mu.Unlock()
		return nil, ErrGameInProgress
	}

	now := s.nowFn()
	session := &RoomSession{
		RoomCode:          roomCode,
		Active:            true,
		CurrentQuestion:   0,
		TotalQuestions:    len(room.Questions),
		StartTime:         now,
		QuestionStartTime: now,
		LastSignalAt:      now,
		Connected:         make(map[string]struct{}),
	}
	s.sessions[roomCode] = session
	state := s.snapshot(session, now)
	s.mu.Unlock()

	log.Printf("Game started in room %s (%d questions)", roomCode, session.TotalQuestions)

	s.hub.BroadcastToRoom(roomCode, websocket.GameEvent{
		Type: "session-state",
		Data: state,
	})

	return state, nil
}

// Snapshot returns the current synchronized state for a room, or
// ErrNoActiveSession when no game is live under that code.
func (s *GameService) Snapshot(roomCode string) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[roomCode]
	if !exists || !session.Active {
		return nil, ErrNoActiveSession
	}

	return s.snapshot(session, s.nowFn()), nil
}

// QuestionTimeUp signals that the current question's time expired. It
// broadcasts the reveal immediately and schedules the advance-or-finish
// transition after the reveal delay. Duplicate signals for the same
// question are no-ops.
func (s *GameService) QuestionTimeUp(roomCode string) error {
	s.mu.Lock()
	session, exists := s.sessions[roomCode]
	if !exists || !session.Active {
		s.mu.Unlock()
		return ErrNoActiveSession
	}
	if session.Revealing {
		s.mu.Unlock()
		return nil
	}

	session.Revealing = true
	session.LastSignalAt = s.nowFn()
	question := session.CurrentQuestion
	s.revealTimers[roomCode] = time.AfterFunc(s.revealDelay, func() {
		s.advanceOrFinish(roomCode, question)
	})
	s.mu.Unlock()

	log.Printf("Question %d time up in room %s, revealing answer", question, roomCode)

	s.hub.BroadcastToRoom(roomCode, websocket.GameEvent{Type: "reveal"})
	return nil
}

// advanceOrFinish runs when a question's reveal window elapses. The
// question index pins the transition to the question that scheduled it,
// so a stale timer can never advance a later question.
func (s *GameService) advanceOrFinish(roomCode string, question int) {
	s.mu.Lock()
	session, exists := s.sessions[roomCode]
	if !exists || session.CurrentQuestion != question || !session.Revealing {
		s.mu.Unlock()
		return
	}
	delete(s.revealTimers, roomCode)

	if question >= session.TotalQuestions-1 {
		session.Active = false
		delete(s.sessions, roomCode)
		s.mu.Unlock()

		log.Printf("Game over in room %s", roomCode)
		s.hub.BroadcastToRoom(roomCode, websocket.GameEvent{Type: "game-over"})
		return
	}

	now := s.nowFn()
	session.CurrentQuestion++
	session.QuestionStartTime = now
	session.Revealing = false
	session.LastSignalAt = now
	next := session.CurrentQuestion
	payload := map[string]interface{}{
		"question_index":      next,
		"start_time":          session.StartTime.UnixMilli(),
		"question_start_time": now.UnixMilli(),
		"server_time":         now.UnixMilli(),
	}
	s.mu.Unlock()

	log.Printf("Room %s advanced to question %d", roomCode, next)

	s.hub.BroadcastToRoom(roomCode, websocket.GameEvent{
		Type: "question-advance",
		Data: payload,
	})
}

// HandleConnect records a connection against a room's session and, when
// a game is live, returns the snapshot a late joiner must receive.
func (s *GameService) HandleConnect(roomCode, connID string) (*SessionState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[roomCode]
	if !exists || !session.Active {
		return nil, false
	}

	session.Connected[connID] = struct{}{}
	return s.snapshot(session, s.nowFn()), true
}

// HandleDisconnect drops a connection from a room's session, if any.
func (s *GameService) HandleDisconnect(roomCode, connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, exists := s.sessions[roomCode]; exists {
		delete(session.Connected, connID)
	}
}

// ExpireIdleSessions tears down sessions that have seen no signal for
// longer than idleTimeout and returns the expired room codes. Clients
// of an expired room get a game-over, same as a normal finish.
func (s *GameService) ExpireIdleSessions(idleTimeout time.Duration) []string {
	now := s.nowFn()

	s.mu.Lock()
	var expired []string
	for code, session := range s.sessions {
		if now.Sub(session.LastSignalAt) > idleTimeout {
			if timer, ok := s.revealTimers[code]; ok {
				timer.Stop()
				delete(s.revealTimers, code)
			}
			session.Active = false
			delete(s.sessions, code)
			expired = append(expired, code)
		}
	}
	s.mu.Unlock()

	for _, code := range expired {
		log.Printf("Expired idle session for room %s", code)
		s.hub.BroadcastToRoom(code, websocket.GameEvent{Type: "game-over"})
	}

	return expired
}

// snapshot builds a SessionState; callers must hold s.mu.
func (s *GameService) snapshot(session *RoomSession, now time.Time) *SessionState {
	return &SessionState{
		Status:            "playing",
		CurrentQuestion:   session.CurrentQuestion,
		TimeLeft:          TimeRemaining(session.QuestionStartTime, now, s.questionTime),
		TotalQuestions:    session.TotalQuestions,
		StartTime:         session.StartTime.UnixMilli(),
		QuestionStartTime: session.QuestionStartTime.UnixMilli(),
		ServerTime:        now.UnixMilli(),
	}
}
