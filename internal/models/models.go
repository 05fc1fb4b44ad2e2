// internal/models/models.go

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question answer modalities
const (
	QuestionTypeMultipleChoice = "multipleChoice"
	QuestionTypeFreeText       = "freeText"
)

// Room is a quiz definition addressable by its shareable code.
// Immutable once created; it persists independent of any live session.
type Room struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Code      string     `gorm:"unique;not null" json:"room_code"` // caller-supplied, e.g. "ABCD"
	Name      string     `gorm:"not null" json:"quiz_name"`
	CreatedBy string     `gorm:"not null" json:"created_by"` // owning account reference
	Questions []Question `gorm:"serializer:json" json:"questions"`
	CreatedAt time.Time  `json:"created_at"`
}

// Question is one entry in a room's ordered question list. Type selects
// the answer modality: multipleChoice uses Choices (exactly one correct),
// freeText uses Answer.
type Question struct {
	Content string   `json:"content"`
	Type    string   `json:"type"`
	Choices []Choice `json:"choices,omitempty"`
	Answer  string   `json:"answer,omitempty"`
}

type Choice struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Player is a participant in one room. PlayerID is the opaque token
// handed to the client; it is unique within its room. A person rejoining
// always gets a new Player record.
type Player struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"-"`
	PlayerID string    `gorm:"unique;not null" json:"player_id"`
	Name     string    `gorm:"not null" json:"name"`
	Avatar   string    `gorm:"not null" json:"avatar"` // unique within the room at assignment time
	RoomCode string    `gorm:"not null;index" json:"room_code"`
	Score    int       `gorm:"default:0" json:"score"`
	IsReady  bool      `gorm:"default:false" json:"is_ready"`
	JoinedAt time.Time `json:"joined_at"`
}

// BeforeCreate hooks to generate UUIDs
func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (p *Player) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now()
	}
	return nil
}
