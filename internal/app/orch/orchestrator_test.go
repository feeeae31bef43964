package orch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Duet/internal/app"
	"github.com/dkeye/Duet/internal/core"
	"github.com/dkeye/Duet/internal/core/coretest"
	"github.com/dkeye/Duet/internal/domain"
)

func newOrchestrator() *Orchestrator {
	rooms := app.NewRoomManager()
	return New(app.NewRegistry(), rooms, app.NewRelay(rooms, nil))
}

func connect(t *testing.T, o *Orchestrator, name string) (core.MemberSession, *coretest.Conn, context.Context) {
	t.Helper()
	s, conn := coretest.NewSession(name)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	o.Connect(s, cancel)
	return s, conn, ctx
}

func TestOrchestrator_FullNegotiationScenario(t *testing.T) {
	o := newOrchestrator()
	a, aConn, aCtx := connect(t, o, "A")
	b, bConn, _ := connect(t, o, "B")

	role, err := o.Join(a.ID(), "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFirst, role)

	role, err = o.Join(b.ID(), "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSecond, role)

	require.True(t, o.Relay.ReadySignal(b.ID(), "r1"))
	require.True(t, o.Relay.RelayOffer(a.ID(), "r1", json.RawMessage(`"x"`)))
	require.True(t, o.Relay.RelayAnswer(b.ID(), "r1", json.RawMessage(`"y"`)))

	o.OnDisconnect(a.ID())

	assert.Equal(t, []string{core.MsgPeerReady, core.MsgAnswerReceived}, aConn.Types())
	assert.Equal(t, []string{core.MsgOfferReceived, core.MsgRoomVacated}, bConn.Types())
	assert.ErrorIs(t, aCtx.Err(), context.Canceled)

	members, ok := o.Rooms.Members("r1")
	require.True(t, ok)
	assert.Equal(t, []core.MemberDTO{{SID: b.ID(), Role: domain.RoleFirst}}, members)

	o.OnDisconnect(b.ID())
	_, ok = o.Rooms.Members("r1")
	assert.False(t, ok, "room r1 should have no members")
	assert.Equal(t, 0, o.Registry.Count())
}

func TestOrchestrator_LoneMemberDisconnectFreesRoom(t *testing.T) {
	o := newOrchestrator()
	a, aConn, _ := connect(t, o, "A")
	c, _, _ := connect(t, o, "C")

	_, err := o.Join(a.ID(), "r1")
	require.NoError(t, err)

	o.OnDisconnect(a.ID())
	assert.Empty(t, aConn.Frames())
	assert.Empty(t, o.Rooms.List())

	role, err := o.Join(c.ID(), "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFirst, role)
}

func TestOrchestrator_JoinFullRoom(t *testing.T) {
	o := newOrchestrator()
	a, _, _ := connect(t, o, "A")
	b, _, _ := connect(t, o, "B")
	c, _, _ := connect(t, o, "C")

	_, err := o.Join(a.ID(), "r1")
	require.NoError(t, err)
	_, err = o.Join(b.ID(), "r1")
	require.NoError(t, err)

	_, err = o.Join(c.ID(), "r1")
	require.ErrorIs(t, err, app.ErrRoomFull)

	_, _, ok := o.Whereabouts(c.ID())
	assert.False(t, ok)
}

func TestOrchestrator_RejoinLeavesPreviousRoom(t *testing.T) {
	o := newOrchestrator()
	a, _, _ := connect(t, o, "A")
	b, bConn, _ := connect(t, o, "B")

	_, err := o.Join(a.ID(), "r1")
	require.NoError(t, err)
	_, err = o.Join(b.ID(), "r1")
	require.NoError(t, err)

	role, err := o.Join(a.ID(), "r2")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFirst, role)

	assert.Equal(t, []string{core.MsgRoomVacated}, bConn.Types())

	room, role, ok := o.Whereabouts(a.ID())
	require.True(t, ok)
	assert.Equal(t, domain.RoomID("r2"), room)
	assert.Equal(t, domain.RoleFirst, role)
}

func TestOrchestrator_RejoinIntoFullRoomKeepsCurrentRoom(t *testing.T) {
	o := newOrchestrator()
	a, aConn, _ := connect(t, o, "A")
	b, bConn, _ := connect(t, o, "B")
	c, cConn, _ := connect(t, o, "C")
	d, dConn, _ := connect(t, o, "D")

	for _, j := range []struct {
		s    core.MemberSession
		room domain.RoomID
	}{{a, "r1"}, {b, "r1"}, {c, "r2"}, {d, "r2"}} {
		_, err := o.Join(j.s.ID(), j.room)
		require.NoError(t, err)
	}

	role, err := o.Join(a.ID(), "r2")
	require.ErrorIs(t, err, app.ErrRoomFull)
	assert.Equal(t, domain.RoleNone, role)

	room, role, ok := o.Whereabouts(a.ID())
	require.True(t, ok)
	assert.Equal(t, domain.RoomID("r1"), room)
	assert.Equal(t, domain.RoleFirst, role)

	regRoom, ok := o.Registry.RoomOf(a.ID())
	require.True(t, ok)
	assert.Equal(t, domain.RoomID("r1"), regRoom)

	for _, conn := range []*coretest.Conn{aConn, bConn, cConn, dConn} {
		assert.Empty(t, conn.Frames())
	}
	peer, ok := o.Rooms.OtherMember(a.ID())
	require.True(t, ok)
	assert.Equal(t, b.ID(), peer.ID())
}

func TestOrchestrator_RejoinSameRoomIsNoop(t *testing.T) {
	o := newOrchestrator()
	a, aConn, _ := connect(t, o, "A")
	b, bConn, _ := connect(t, o, "B")

	_, err := o.Join(a.ID(), "r1")
	require.NoError(t, err)
	_, err = o.Join(b.ID(), "r1")
	require.NoError(t, err)

	role, err := o.Join(a.ID(), "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFirst, role)

	role, err = o.Join(b.ID(), "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSecond, role)

	assert.Empty(t, aConn.Frames())
	assert.Empty(t, bConn.Frames())

	members, ok := o.Rooms.Members("r1")
	require.True(t, ok)
	assert.Equal(t, []core.MemberDTO{
		{SID: a.ID(), Role: domain.RoleFirst},
		{SID: b.ID(), Role: domain.RoleSecond},
	}, members)
}

func TestOrchestrator_ExplicitLeaveKeepsConnection(t *testing.T) {
	o := newOrchestrator()
	a, _, aCtx := connect(t, o, "A")

	_, err := o.Join(a.ID(), "r1")
	require.NoError(t, err)

	room, ok := o.Leave(a.ID())
	require.True(t, ok)
	assert.Equal(t, domain.RoomID("r1"), room)
	assert.NoError(t, aCtx.Err())
	assert.Equal(t, 1, o.Registry.Count())

	_, ok = o.Leave(a.ID())
	assert.False(t, ok)
}

func TestOrchestrator_JoinUnknownSession(t *testing.T) {
	o := newOrchestrator()
	_, err := o.Join("nobody", "r1")
	require.ErrorIs(t, err, app.ErrUnknownSession)
	assert.Empty(t, o.Rooms.List())
}
