package signal

import (
	"encoding/json"

	"github.com/dkeye/Duet/internal/core"
	"github.com/rs/zerolog/log"
)

// Negotiation payloads are opaque: only the routing fields are decoded.

func (ctl *SignalWSController) handleReady(sid core.SessionID, env core.Envelope) {
	ctl.Orch.Relay.ReadySignal(sid, env.Room)
}

func (ctl *SignalWSController) handleOffer(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p core.DescriptionMessage
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad offer payload")
		ctl.sendError(conn, core.ErrCodeBadPayload)
		return
	}
	ctl.Orch.Relay.RelayOffer(sid, p.Room, p.SDP)
}

func (ctl *SignalWSController) handleAnswer(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p core.DescriptionMessage
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad answer payload")
		ctl.sendError(conn, core.ErrCodeBadPayload)
		return
	}
	ctl.Orch.Relay.RelayAnswer(sid, p.Room, p.SDP)
}

func (ctl *SignalWSController) handleCandidate(
	sid core.SessionID,
	env core.Envelope,
	data []byte,
) {
	ctl.Orch.Relay.RelayCandidate(sid, env.Room, core.Frame(data))
}
