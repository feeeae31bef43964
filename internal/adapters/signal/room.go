package signal

import (
	"errors"

	"github.com/dkeye/Duet/internal/app"
	"github.com/dkeye/Duet/internal/core"
	"github.com/dkeye/Duet/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(
	sid core.SessionID,
	conn *WsSignalConn,
	env core.Envelope,
) {
	if env.Room == "" {
		ctl.sendError(conn, core.ErrCodeEmptyRoom)
		return
	}
	if !ctl.Limiter.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("join rate limited")
		ctl.sendError(conn, core.ErrCodeRateLimited)
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(env.Room)).Msg("create-or-join")
	role, err := ctl.Orch.Join(sid, env.Room)
	switch {
	case errors.Is(err, app.ErrRoomFull):
		ctl.sendJSON(conn, core.RoomMessage{Type: core.MsgFullRoom, Room: env.Room})
	case err != nil:
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("join failed")
		ctl.sendError(conn, core.ErrCodeBadPayload)
	case role == domain.RoleFirst:
		ctl.sendJSON(conn, core.RoomMessage{Type: core.MsgRoomCreated, Room: env.Room, Role: role})
	default:
		ctl.sendJSON(conn, core.RoomMessage{Type: core.MsgJoinedRoom, Room: env.Room, Role: role})
	}
}

// handleLeave leaves the current room; the connection stays open.
func (ctl *SignalWSController) handleLeave(
	sid core.SessionID,
	conn *WsSignalConn,
) {
	room, ok := ctl.Orch.Leave(sid)
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(room)).Bool("was_member", ok).Msg("leave")
	ctl.sendJSON(conn, core.RoomMessage{Type: core.MsgLeft, Room: room})
}
