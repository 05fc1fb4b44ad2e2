package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/OduorSamuuel/codemaster-backend/internal/models"
	"gorm.io/gorm"
)

// RoomService is the durable registry of quiz rooms. Room codes are
// caller-supplied and must be unique; rooms are immutable once created.
type RoomService struct {
	rooms RoomStore
}

func NewRoomService(rooms RoomStore) *RoomService {
	return &RoomService{rooms: rooms}
}

// CreateRoom registers a new quiz room under a shareable code.
func (s *RoomService) CreateRoom(code, name, createdBy string, questions []models.Question) (*models.Room, error) {
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	if existing, err := s.rooms.GetByCode(code); err == nil && existing != nil {
		return nil, ErrDuplicateCode
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room := &models.Room{
		Code:      code,
		Name:      name,
		CreatedBy: createdBy,
		Questions: questions,
	}

	if err := s.rooms.Create(room); err != nil {
		return nil, err
	}

	log.Printf("Room %s (%s) created by %s with %d questions", code, name, createdBy, len(questions))
	return room, nil
}

// GetRoom fetches a room definition by its code.
func (s *RoomService) GetRoom(code string) (*models.Room, error) {
	room, err := s.rooms.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// ListOwnerRooms returns the rooms an account has authored.
func (s *RoomService) ListOwnerRooms(createdBy string) ([]models.Room, error) {
	return s.rooms.ListByOwner(createdBy)
}

// validateQuestions enforces that every multiple-choice question carries
// exactly one correct choice and that free-text questions carry an
// expected answer.
func validateQuestions(questions []models.Question) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	for i, q := range questions {
		switch q.Type {
		case models.QuestionTypeMultipleChoice:
			correct := 0
			for _, c := range q.Choices {
				if c.IsCorrect {
					correct++
				}
			}
			if len(q.Choices) == 0 || correct != 1 {
				return fmt.Errorf("question %d must have exactly one correct choice", i)
			}
		case models.QuestionTypeFreeText:
			if q.Answer == "" {
				return fmt.Errorf("question %d is missing an expected answer", i)
			}
		default:
			return fmt.Errorf("question %d has unknown type %q", i, q.Type)
		}
	}

	return nil
}
