package core

import "github.com/dkeye/Duet/internal/domain"

// memberSession implements MemberSession by pairing identity + transport.
type memberSession struct {
	sid    SessionID
	client domain.ClientToken
	signal SignalConnection
}

func NewMemberSession(sid SessionID, client domain.ClientToken, signal SignalConnection) MemberSession {
	return &memberSession{sid: sid, client: client, signal: signal}
}

func (m *memberSession) ID() SessionID              { return m.sid }
func (m *memberSession) Client() domain.ClientToken { return m.client }
func (m *memberSession) Signal() SignalConnection   { return m.signal }
