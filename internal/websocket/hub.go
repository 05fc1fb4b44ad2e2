package websocket

import (
	"log"
	"sync"
)

// GameEvent is the envelope for every message pushed over a room channel.
type GameEvent struct {
	Type     string      `json:"type"`
	RoomCode string      `json:"room_code,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// Hub fans room-scoped events out to every connection subscribed to that
// room. Delivery is at-most-once per connection: a client whose send
// buffer is full is dropped, and a disconnected client misses events
// until it resynchronizes via join.
type Hub struct {
	// Subscribed clients keyed by room code
	rooms map[string]map[string]*Client

	// Protects rooms map
	mu sync.RWMutex

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// Broadcast messages
	Broadcast chan *GameEvent

	// Invoked after a client leaves a room, outside the hub lock.
	// Used for session connection bookkeeping.
	OnDisconnect func(roomCode, clientID string)
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan *GameEvent, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.handleRegister(client)
		case client := <-h.Unregister:
			h.handleUnregister(client)
		case event := <-h.Broadcast:
			h.handleBroadcast(event)
		}
	}
}

func (h *Hub) handleRegister(client *Client) {
	// A client with no room yet is connected but not subscribed anywhere.
	if client.RoomCode == "" {
		return
	}

	h.mu.Lock()
	if _, exists := h.rooms[client.RoomCode]; !exists {
		h.rooms[client.RoomCode] = make(map[string]*Client)
	}
	h.rooms[client.RoomCode][client.ID] = client
	count := len(h.rooms[client.RoomCode])
	h.mu.Unlock()

	log.Printf("Client %s subscribed to room %s (connections: %d)", client.ID, client.RoomCode, count)
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	room, exists := h.rooms[client.RoomCode]
	if exists {
		if _, ok := room[client.ID]; ok {
			delete(room, client.ID)
			close(client.send)
		} else {
			exists = false
		}

		if len(room) == 0 {
			delete(h.rooms, client.RoomCode)
			log.Printf("Room channel %s removed (empty)", client.RoomCode)
		}
	}
	h.mu.Unlock()

	if exists {
		log.Printf("Client %s unsubscribed from room %s", client.ID, client.RoomCode)
		if h.OnDisconnect != nil {
			h.OnDisconnect(client.RoomCode, client.ID)
		}
	}
}

func (h *Hub) handleBroadcast(event *GameEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, exists := h.rooms[event.RoomCode]
	if !exists {
		return
	}

	for _, client := range room {
		select {
		case client.send <- event:
		default:
			// Slow consumer; at-most-once delivery, never escalated.
			log.Printf("Dropped %s event for client %s (buffer full)", event.Type, client.ID)
		}
	}
}

// BroadcastToRoom queues an event for every connection in a room.
func (h *Hub) BroadcastToRoom(roomCode string, event GameEvent) {
	event.RoomCode = roomCode
	h.Broadcast <- &event
}

// SendToClient delivers an event to a single connection, bypassing the room.
func (h *Hub) SendToClient(client *Client, event GameEvent) error {
	select {
	case client.send <- &event:
	default:
		log.Printf("Dropped %s event for client %s (buffer full)", event.Type, client.ID)
	}
	return nil
}

// ConnectionCount returns the number of live connections in a room.
func (h *Hub) ConnectionCount(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[roomCode])
}
