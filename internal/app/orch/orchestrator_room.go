package orch

import (
	"fmt"

	"github.com/dkeye/Duet/internal/app"
	"github.com/dkeye/Duet/internal/core"
	"github.com/dkeye/Duet/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join moves sid into room. A session already in another room leaves it
// only once room has accepted it; joining its own room again is a no-op that
// reports the current role.
func (o *Orchestrator) Join(sid core.SessionID, room domain.RoomID) (domain.Role, error) {
	session, ok := o.Registry.GetSession(sid)
	if !ok {
		return domain.RoleNone, fmt.Errorf("join %s: %w", room, app.ErrUnknownSession)
	}

	role, left, err := o.Rooms.Move(session, room)
	if err != nil {
		return domain.RoleNone, err
	}
	if left != nil {
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("from_room", string(left.Room)).Msg("left room for join")
		if left.Remaining != nil {
			o.Relay.Vacated(left.Remaining, left.Room)
		}
	}
	o.Registry.UpdateRoom(sid, room)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room)).Str("role", string(role)).Msg("added to room")
	return role, nil
}

// Leave takes sid out of its room and notifies the remaining member.
func (o *Orchestrator) Leave(sid core.SessionID) (domain.RoomID, bool) {
	res, ok := o.Rooms.Leave(sid)
	if !ok {
		return "", false
	}
	o.Registry.RemoveRoom(sid)
	if res.Remaining != nil {
		o.Relay.Vacated(res.Remaining, res.Room)
	}
	return res.Room, true
}

// Whereabouts reports the room and role of sid.
func (o *Orchestrator) Whereabouts(sid core.SessionID) (domain.RoomID, domain.Role, bool) {
	if _, ok := o.Registry.RoomOf(sid); !ok {
		return "", domain.RoleNone, false
	}
	return o.Rooms.RoomOf(sid)
}
