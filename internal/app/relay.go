package app

import (
	"encoding/json"

	"github.com/dkeye/Duet/internal/core"
	"github.com/dkeye/Duet/internal/domain"
	"github.com/rs/zerolog/log"
)

// Relay forwards negotiation messages to the other member of the sender's
// room. It keeps no state of its own; a missing addressee drops the message.
type Relay struct {
	Rooms  core.RoomManager
	Policy Policy
}

func NewRelay(rooms core.RoomManager, policy Policy) *Relay {
	if policy == nil {
		policy = SimplePolicy{}
	}
	return &Relay{Rooms: rooms, Policy: policy}
}

// ReadySignal tells the first joiner that the second one is set up.
func (r *Relay) ReadySignal(sid core.SessionID, room domain.RoomID) bool {
	return r.forwardJSON(sid, room, core.MsgPeerReady, func(to domain.RoomID) any {
		return core.RoomMessage{Type: core.MsgPeerReady, Room: to}
	})
}

func (r *Relay) RelayOffer(sid core.SessionID, room domain.RoomID, sdp json.RawMessage) bool {
	return r.forwardJSON(sid, room, core.MsgOfferReceived, func(to domain.RoomID) any {
		return core.DescriptionMessage{Type: core.MsgOfferReceived, SDP: sdp, Room: to}
	})
}

func (r *Relay) RelayAnswer(sid core.SessionID, room domain.RoomID, sdp json.RawMessage) bool {
	return r.forwardJSON(sid, room, core.MsgAnswerReceived, func(to domain.RoomID) any {
		return core.DescriptionMessage{Type: core.MsgAnswerReceived, SDP: sdp, Room: to}
	})
}

// RelayCandidate forwards the inbound candidate frame as received.
func (r *Relay) RelayCandidate(sid core.SessionID, room domain.RoomID, frame core.Frame) bool {
	peer, _, ok := r.addressee(sid, room, core.MsgCandidate)
	if !ok {
		return false
	}
	return r.deliver(peer, frame)
}

// Vacated tells the remaining member its peer is gone and that it now
// holds the first role.
func (r *Relay) Vacated(remaining core.MemberSession, room domain.RoomID) bool {
	frame, err := json.Marshal(core.RoomMessage{Type: core.MsgRoomVacated, Room: room, Role: domain.RoleFirst})
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("marshal vacated")
		return false
	}
	return r.deliver(remaining, frame)
}

func (r *Relay) forwardJSON(sid core.SessionID, room domain.RoomID, kind string, build func(domain.RoomID) any) bool {
	peer, current, ok := r.addressee(sid, room, kind)
	if !ok {
		return false
	}
	frame, err := json.Marshal(build(current))
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Str("kind", kind).Msg("marshal relay frame")
		return false
	}
	return r.deliver(peer, frame)
}

// addressee resolves the other member of sid's room. A non-empty room that
// differs from sid's current room is treated as an absent addressee.
func (r *Relay) addressee(sid core.SessionID, room domain.RoomID, kind string) (core.MemberSession, domain.RoomID, bool) {
	current, _, ok := r.Rooms.RoomOf(sid)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("sid", string(sid)).Str("kind", kind).Msg("drop: sender in no room")
		return nil, "", false
	}
	if room != "" && room != current {
		log.Debug().Str("module", "app.relay").Str("sid", string(sid)).Str("kind", kind).
			Str("room", string(room)).Str("current", string(current)).Msg("drop: room mismatch")
		return nil, "", false
	}
	peer, ok := r.Rooms.OtherMember(sid)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("sid", string(sid)).Str("kind", kind).Str("room", string(current)).Msg("drop: no peer")
		return nil, "", false
	}
	return peer, current, true
}

func (r *Relay) deliver(peer core.MemberSession, frame core.Frame) bool {
	err := peer.Signal().TrySend(frame)
	if err == nil {
		return true
	}
	switch r.Policy.OnBackPressure(peer, err) {
	case CloseMember:
		log.Warn().Err(err).Str("module", "app.relay").Str("sid", string(peer.ID())).Msg("closing slow peer")
		peer.Signal().Close()
	case DropMessage:
		log.Warn().Err(err).Str("module", "app.relay").Str("sid", string(peer.ID())).Msg("frame dropped")
	}
	return false
}
