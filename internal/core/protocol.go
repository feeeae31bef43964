package core

import (
	"encoding/json"

	"github.com/dkeye/Duet/internal/domain"
)

// Message types exchanged over the signaling channel.
const (
	MsgCreateOrJoin   = "create-or-join"
	MsgRoomCreated    = "room-created"
	MsgJoinedRoom     = "joined-room"
	MsgFullRoom       = "full-room"
	MsgReady          = "ready"
	MsgPeerReady      = "peer-ready"
	MsgOffer          = "offer"
	MsgOfferReceived  = "offer-received"
	MsgAnswer         = "answer"
	MsgAnswerReceived = "answer-received"
	MsgCandidate      = "candidate"
	MsgRoomVacated    = "room-vacated"

	MsgLeave  = "leave"
	MsgLeft   = "left"
	MsgPing   = "ping"
	MsgPong   = "pong"
	MsgWhoAmI = "whoami"
	MsgError  = "error"
)

// Error codes carried by MsgError frames.
const (
	ErrCodeBadPayload  = "bad_payload"
	ErrCodeEmptyRoom   = "empty_room"
	ErrCodeRateLimited = "rate_limited"
	ErrCodeUnknownType = "unknown_type"
)

// Envelope is the routing header every inbound message carries.
type Envelope struct {
	Type string        `json:"type"`
	Room domain.RoomID `json:"room,omitempty"`
}

// RoomMessage answers joins and announces room state changes.
type RoomMessage struct {
	Type string        `json:"type"`
	Room domain.RoomID `json:"room,omitempty"`
	Role domain.Role   `json:"role,omitempty"`
}

// DescriptionMessage carries an offer or answer. SDP is forwarded untouched.
type DescriptionMessage struct {
	Type string          `json:"type"`
	SDP  json.RawMessage `json:"sdp"`
	Room domain.RoomID   `json:"room,omitempty"`
}

type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type WhoAmIMessage struct {
	Type string        `json:"type"`
	SID  SessionID     `json:"sid"`
	Room domain.RoomID `json:"room,omitempty"`
	Role domain.Role   `json:"role,omitempty"`
}
