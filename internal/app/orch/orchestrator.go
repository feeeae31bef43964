package orch

import (
	"context"

	"github.com/dkeye/Duet/internal/app"
	"github.com/dkeye/Duet/internal/core"
	"github.com/rs/zerolog/log"
)

type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.RoomManager
	Relay    *app.Relay
}

func New(registry *app.Registry, rooms core.RoomManager, relay *app.Relay) *Orchestrator {
	return &Orchestrator{Registry: registry, Rooms: rooms, Relay: relay}
}

// Connect registers a fresh connection. cancel is called once it disconnects.
func (o *Orchestrator) Connect(sess core.MemberSession, cancel context.CancelFunc) {
	o.Registry.Bind(sess, cancel)
}

// OnDisconnect removes sid from its room, tells the peer left behind and
// forgets the connection. Safe to call more than once.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	if room, ok := o.Leave(sid); ok {
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room)).Msg("disconnected from room")
	}
	o.Registry.Unbind(sid)
}
