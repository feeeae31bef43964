package app

import "errors"

var (
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyInRoom  = errors.New("session already in a room")
	ErrEmptyRoomID    = errors.New("empty room id")
	ErrUnknownSession = errors.New("unknown session")
)
