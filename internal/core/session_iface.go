package core

import (
	"github.com/dkeye/Duet/internal/domain"
	"github.com/google/uuid"
)

// SessionID identifies one live connection. A reconnecting browser gets a new one.
type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// MemberSession binds a connection identity and its transport endpoint.
// This is what a room stores and relays to.
type MemberSession interface {
	ID() SessionID
	Client() domain.ClientToken
	Signal() SignalConnection
}
