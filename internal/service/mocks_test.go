package service

import (
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/OduorSamuuel/codemaster-backend/internal/models"
	"github.com/OduorSamuuel/codemaster-backend/internal/repository"
	"github.com/OduorSamuuel/codemaster-backend/internal/websocket"
)

// fakeRoomStore is an in-memory RoomStore.
type fakeRoomStore struct {
	mu    sync.Mutex
	rooms map[string]*models.Room
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{rooms: make(map[string]*models.Room)}
}

func (f *fakeRoomStore) Create(room *models.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[room.Code] = room
	return nil
}

func (f *fakeRoomStore) GetByCode(code string) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return room, nil
}

func (f *fakeRoomStore) ListByOwner(createdBy string) ([]models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rooms []models.Room
	for _, room := range f.rooms {
		if room.CreatedBy == createdBy {
			rooms = append(rooms, *room)
		}
	}
	return rooms, nil
}

// fakePlayerStore is an in-memory PlayerStore.
type fakePlayerStore struct {
	mu      sync.Mutex
	players []*models.Player
}

func newFakePlayerStore() *fakePlayerStore {
	return &fakePlayerStore{}
}

func (f *fakePlayerStore) Create(player *models.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *player
	f.players = append(f.players, &copied)
	return nil
}

func (f *fakePlayerStore) GetByPlayerID(playerID string) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.players {
		if p.PlayerID == playerID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePlayerStore) FindByRoom(roomCode string, order repository.PlayerOrder) ([]models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var players []models.Player
	for _, p := range f.players {
		if p.RoomCode == roomCode {
			players = append(players, *p)
		}
	}
	if order == repository.OrderByScore {
		sort.SliceStable(players, func(i, j int) bool {
			return players[i].Score > players[j].Score
		})
	} else {
		sort.SliceStable(players, func(i, j int) bool {
			return players[i].JoinedAt.Before(players[j].JoinedAt)
		})
	}
	return players, nil
}

func (f *fakePlayerStore) UpdateScore(playerID string, score int) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.players {
		if p.PlayerID == playerID {
			p.Score = score
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePlayerStore) Delete(roomCode, playerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.players {
		if p.RoomCode == roomCode && p.PlayerID == playerID {
			f.players = append(f.players[:i], f.players[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakePlayerStore) AvatarTaken(roomCode, avatar string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.players {
		if p.RoomCode == roomCode && p.Avatar == avatar {
			return true, nil
		}
	}
	return false, nil
}

// recordingHub captures broadcasts in order instead of fanning them out.
type recordingHub struct {
	mu     sync.Mutex
	events []websocket.GameEvent
}

func (h *recordingHub) BroadcastToRoom(roomCode string, event websocket.GameEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	event.RoomCode = roomCode
	h.events = append(h.events, event)
}

func (h *recordingHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	types := make([]string, len(h.events))
	for i, e := range h.events {
		types[i] = e.Type
	}
	return types
}

func (h *recordingHub) last(eventType string) (websocket.GameEvent, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.events) - 1; i >= 0; i-- {
		if h.events[i].Type == eventType {
			return h.events[i], true
		}
	}
	return websocket.GameEvent{}, false
}

func (h *recordingHub) count(eventType string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// MockRoomStore is a testify mock for failure-path tests.
type MockRoomStore struct {
	mock.Mock
}

func (m *MockRoomStore) Create(room *models.Room) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockRoomStore) GetByCode(code string) (*models.Room, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomStore) ListByOwner(createdBy string) ([]models.Room, error) {
	args := m.Called(createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Room), args.Error(1)
}
