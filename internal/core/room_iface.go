package core

import (
	"github.com/dkeye/Duet/internal/domain"
)

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	SID  SessionID   `json:"sid"`
	Role domain.Role `json:"role"`
}

type RoomInfo struct {
	Room    domain.RoomID `json:"room"`
	Members int           `json:"members"`
}

// LeaveResult describes the room a session left.
// Remaining is nil when the room was emptied and removed.
type LeaveResult struct {
	Room      domain.RoomID
	Remaining MemberSession
}

// RoomManager owns room membership and role assignment.
// It never touches transport resources.
type RoomManager interface {
	// Join admits ms into room. The first joiner gets RoleFirst, the second
	// RoleSecond; a third is refused without changing state.
	Join(ms MemberSession, room domain.RoomID) (domain.Role, error)
	// Move is Join for a session that may already be in a room. The old
	// room is left only if room accepts ms; left reports it, nil if none.
	Move(ms MemberSession, room domain.RoomID) (role domain.Role, left *LeaveResult, err error)
	// Leave removes sid from its room. ok is false if sid was in no room.
	Leave(sid SessionID) (res LeaveResult, ok bool)
	// OtherMember returns the peer sharing sid's room when the room is full.
	OtherMember(sid SessionID) (MemberSession, bool)
	RoomOf(sid SessionID) (domain.RoomID, domain.Role, bool)

	List() []RoomInfo
	Members(room domain.RoomID) ([]MemberDTO, bool)
}
