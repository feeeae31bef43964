package signal

import "github.com/dkeye/Duet/internal/core"

func (ctl *SignalWSController) handlePing(
	conn *WsSignalConn,
) {
	ctl.sendJSON(conn, core.Envelope{Type: core.MsgPong})
}

func (ctl *SignalWSController) handleWhoAmI(
	sid core.SessionID,
	conn *WsSignalConn,
) {
	resp := core.WhoAmIMessage{Type: core.MsgWhoAmI, SID: sid}
	if room, role, ok := ctl.Orch.Whereabouts(sid); ok {
		resp.Room = room
		resp.Role = role
	}
	ctl.sendJSON(conn, resp)
}
