package service

import "errors"

// Core failure taxonomy. Handlers map these onto HTTP statuses; the
// websocket layer reports them only to the acting client.
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrDuplicateCode   = errors.New("room code already in use")
	ErrNoQuestions     = errors.New("room has no questions")
	ErrGameInProgress  = errors.New("game already in progress")
	ErrNoActiveSession = errors.New("no active session for room")
	ErrAvatarExhausted = errors.New("could not assign a unique avatar")
)
