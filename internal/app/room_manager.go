package app

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dkeye/Duet/internal/core"
	"github.com/dkeye/Duet/internal/domain"
	"github.com/rs/zerolog/log"
)

type member struct {
	session core.MemberSession
	role    domain.Role
}

// room holds at most domain.RoomCapacity members in join order.
// An empty room is never stored.
type room struct {
	id      domain.RoomID
	members []member
}

func (r *room) other(sid core.SessionID) (core.MemberSession, bool) {
	if len(r.members) != domain.RoomCapacity {
		return nil, false
	}
	for _, m := range r.members {
		if m.session.ID() != sid {
			return m.session, true
		}
	}
	return nil, false
}

// RoomManagerImpl keeps every room behind one lock. Join, Move and Leave take it
// exclusively so two racing joiners can never both become first.
type RoomManagerImpl struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*room
	bySID map[core.SessionID]domain.RoomID
}

func NewRoomManager() *RoomManagerImpl {
	return &RoomManagerImpl{
		rooms: make(map[domain.RoomID]*room),
		bySID: make(map[core.SessionID]domain.RoomID),
	}
}

func (f *RoomManagerImpl) Join(ms core.MemberSession, id domain.RoomID) (domain.Role, error) {
	if id == "" {
		return domain.RoleNone, ErrEmptyRoomID
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if cur, ok := f.bySID[ms.ID()]; ok {
		return domain.RoleNone, fmt.Errorf("%w: %s", ErrAlreadyInRoom, cur)
	}
	return f.joinLocked(ms, id)
}

// Move puts ms into room id, leaving its current room only once id has
// accepted it. A full target leaves every room untouched. Moving into the
// room ms already occupies keeps its role and returns a nil left.
func (f *RoomManagerImpl) Move(ms core.MemberSession, id domain.RoomID) (domain.Role, *core.LeaveResult, error) {
	if id == "" {
		return domain.RoleNone, nil, ErrEmptyRoomID
	}
	sid := ms.ID()

	f.mu.Lock()
	defer f.mu.Unlock()

	cur, inRoom := f.bySID[sid]
	if inRoom && cur == id {
		return f.roleLocked(sid, id), nil, nil
	}
	if r, ok := f.rooms[id]; ok && len(r.members) >= domain.RoomCapacity {
		log.Info().Str("module", "app.rooms").Str("sid", string(sid)).Str("room", string(id)).Msg("room full")
		return domain.RoleNone, nil, ErrRoomFull
	}

	var left *core.LeaveResult
	if inRoom {
		res := f.leaveLocked(sid)
		left = &res
	}
	role, err := f.joinLocked(ms, id)
	return role, left, err
}

func (f *RoomManagerImpl) joinLocked(ms core.MemberSession, id domain.RoomID) (domain.Role, error) {
	sid := ms.ID()
	r, ok := f.rooms[id]
	if !ok {
		r = &room{id: id}
	}

	var role domain.Role
	switch len(r.members) {
	case 0:
		role = domain.RoleFirst
	case 1:
		role = domain.RoleSecond
	default:
		log.Info().Str("module", "app.rooms").Str("sid", string(sid)).Str("room", string(id)).Msg("room full")
		return domain.RoleNone, ErrRoomFull
	}

	r.members = append(r.members, member{session: ms, role: role})
	f.rooms[id] = r
	f.bySID[sid] = id
	log.Info().Str("module", "app.rooms").Str("sid", string(sid)).Str("room", string(id)).Str("role", string(role)).Msg("member joined")
	return role, nil
}

func (f *RoomManagerImpl) Leave(sid core.SessionID) (core.LeaveResult, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.bySID[sid]; !ok {
		return core.LeaveResult{}, false
	}
	return f.leaveLocked(sid), true
}

// leaveLocked expects sid to be in a room.
func (f *RoomManagerImpl) leaveLocked(sid core.SessionID) core.LeaveResult {
	id := f.bySID[sid]
	delete(f.bySID, sid)

	res := core.LeaveResult{Room: id}
	r, ok := f.rooms[id]
	if !ok {
		return res
	}
	r.members = slices.DeleteFunc(r.members, func(m member) bool {
		return m.session.ID() == sid
	})

	if len(r.members) == 0 {
		delete(f.rooms, id)
		log.Info().Str("module", "app.rooms").Str("sid", string(sid)).Str("room", string(id)).Msg("room removed")
		return res
	}

	// The survivor leads the next pairing.
	r.members[0].role = domain.RoleFirst
	res.Remaining = r.members[0].session
	log.Info().Str("module", "app.rooms").Str("sid", string(sid)).Str("room", string(id)).Msg("member left")
	return res
}

func (f *RoomManagerImpl) roleLocked(sid core.SessionID, id domain.RoomID) domain.Role {
	r, ok := f.rooms[id]
	if !ok {
		return domain.RoleNone
	}
	for _, m := range r.members {
		if m.session.ID() == sid {
			return m.role
		}
	}
	return domain.RoleNone
}

func (f *RoomManagerImpl) OtherMember(sid core.SessionID) (core.MemberSession, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	id, ok := f.bySID[sid]
	if !ok {
		return nil, false
	}
	r, ok := f.rooms[id]
	if !ok {
		return nil, false
	}
	return r.other(sid)
}

func (f *RoomManagerImpl) RoomOf(sid core.SessionID) (domain.RoomID, domain.Role, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	id, ok := f.bySID[sid]
	if !ok {
		return "", domain.RoleNone, false
	}
	role := f.roleLocked(sid, id)
	if role == domain.RoleNone {
		return "", domain.RoleNone, false
	}
	return id, role, true
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for id, r := range f.rooms {
		out = append(out, core.RoomInfo{Room: id, Members: len(r.members)})
	}
	slices.SortFunc(out, func(a, b core.RoomInfo) int {
		return strings.Compare(string(a.Room), string(b.Room))
	})
	return out
}

func (f *RoomManagerImpl) Members(id domain.RoomID) ([]core.MemberDTO, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, false
	}
	out := make([]core.MemberDTO, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, core.MemberDTO{SID: m.session.ID(), Role: m.role})
	}
	return out, true
}
