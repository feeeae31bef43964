package app

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dkeye/Duet/internal/core"
	"github.com/dkeye/Duet/internal/core/coretest"
	"github.com/dkeye/Duet/internal/core/mocks"
	"github.com/dkeye/Duet/internal/domain"
)

func pairedRoom(t *testing.T) (*RoomManagerImpl, *Relay, core.MemberSession, *coretest.Conn, core.MemberSession, *coretest.Conn) {
	t.Helper()
	rm := NewRoomManager()
	a, aConn := coretest.NewSession("a")
	b, bConn := coretest.NewSession("b")
	_, err := rm.Join(a, "r1")
	require.NoError(t, err)
	_, err = rm.Join(b, "r1")
	require.NoError(t, err)
	return rm, NewRelay(rm, nil), a, aConn, b, bConn
}

func decode(t *testing.T, f core.Frame) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(f, &m))
	return m
}

func TestRelay_ReadyReachesFirstJoiner(t *testing.T) {
	_, relay, _, aConn, b, bConn := pairedRoom(t)

	require.True(t, relay.ReadySignal(b.ID(), "r1"))

	frames := aConn.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, map[string]any{"type": core.MsgPeerReady, "room": "r1"}, decode(t, frames[0]))
	assert.Empty(t, bConn.Frames(), "sender must not hear its own message")
}

func TestRelay_OfferAndAnswerForwardSDPUntouched(t *testing.T) {
	_, relay, a, aConn, b, bConn := pairedRoom(t)
	offer := json.RawMessage(`{"type":"offer","sdp":"v=0\r\n"}`)
	answer := json.RawMessage(`"y"`)

	require.True(t, relay.RelayOffer(a.ID(), "r1", offer))
	require.True(t, relay.RelayAnswer(b.ID(), "", answer))

	require.Len(t, bConn.Frames(), 1)
	var got core.DescriptionMessage
	require.NoError(t, json.Unmarshal(bConn.Frames()[0], &got))
	assert.Equal(t, core.MsgOfferReceived, got.Type)
	assert.JSONEq(t, string(offer), string(got.SDP))
	assert.Equal(t, domain.RoomID("r1"), got.Room)

	require.Len(t, aConn.Frames(), 1)
	require.NoError(t, json.Unmarshal(aConn.Frames()[0], &got))
	assert.Equal(t, core.MsgAnswerReceived, got.Type)
	assert.JSONEq(t, `"y"`, string(got.SDP))
}

func TestRelay_CandidateIsForwardedByteForByte(t *testing.T) {
	_, relay, a, _, _, bConn := pairedRoom(t)
	frame := core.Frame(`{"type":"candidate","label":0,"id":"0","candidate":"candidate:1 1 udp 2122260223 10.0.0.1 54321 typ host","room":"r1"}`)

	require.True(t, relay.RelayCandidate(a.ID(), "r1", frame))
	require.Len(t, bConn.Frames(), 1)
	assert.Equal(t, frame, bConn.Frames()[0])
}

func TestRelay_DropsWithoutAddressee(t *testing.T) {
	rm := NewRoomManager()
	relay := NewRelay(rm, nil)
	a, aConn := coretest.NewSession("a")
	loner, lonerConn := coretest.NewSession("loner")

	// a is in no room.
	assert.False(t, relay.RelayOffer(a.ID(), "r1", json.RawMessage(`"x"`)))
	assert.False(t, relay.RelayAnswer(a.ID(), "r1", json.RawMessage(`"y"`)))
	assert.False(t, relay.RelayCandidate(a.ID(), "r1", core.Frame(`{}`)))
	assert.False(t, relay.ReadySignal(a.ID(), "r1"))

	// loner has no peer.
	_, err := rm.Join(loner, "r2")
	require.NoError(t, err)
	assert.False(t, relay.RelayOffer(loner.ID(), "r2", json.RawMessage(`"x"`)))
	assert.False(t, relay.RelayCandidate(loner.ID(), "r2", core.Frame(`{}`)))

	assert.Empty(t, aConn.Frames())
	assert.Empty(t, lonerConn.Frames())
}

func TestRelay_DropsOnRoomMismatch(t *testing.T) {
	_, relay, a, aConn, _, bConn := pairedRoom(t)

	assert.False(t, relay.RelayOffer(a.ID(), "elsewhere", json.RawMessage(`"x"`)))
	assert.Empty(t, bConn.Frames())
	assert.Empty(t, aConn.Frames())
}

func TestRelay_DropsAfterPeerLeft(t *testing.T) {
	rm, relay, a, _, b, bConn := pairedRoom(t)

	_, ok := rm.Leave(b.ID())
	require.True(t, ok)

	assert.False(t, relay.RelayOffer(a.ID(), "r1", json.RawMessage(`"x"`)))
	assert.Empty(t, bConn.Frames())
}

func TestRelay_VacatedCarriesFirstRole(t *testing.T) {
	relay := NewRelay(NewRoomManager(), nil)
	b, bConn := coretest.NewSession("b")

	require.True(t, relay.Vacated(b, "r1"))
	require.Len(t, bConn.Frames(), 1)
	assert.Equal(t, map[string]any{"type": core.MsgRoomVacated, "room": "r1", "role": "first"}, decode(t, bConn.Frames()[0]))
}

func TestRelay_BackpressurePolicy(t *testing.T) {
	errFull := errors.New("queue full")

	cases := []struct {
		name      string
		policy    Policy
		wantClose bool
	}{
		{name: "drop", policy: SimplePolicy{}},
		{name: "close", policy: StrictPolicy{}, wantClose: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			slow := mocks.NewMockSignalConnection(ctrl)
			slow.EXPECT().TrySend(gomock.Any()).Return(errFull)
			if tc.wantClose {
				slow.EXPECT().Close()
			}

			rm := NewRoomManager()
			a, _ := coretest.NewSession("a")
			b := core.NewMemberSession("b", "client-b", slow)
			_, err := rm.Join(a, "r1")
			require.NoError(t, err)
			_, err = rm.Join(b, "r1")
			require.NoError(t, err)

			relay := NewRelay(rm, tc.policy)
			assert.False(t, relay.RelayOffer(a.ID(), "r1", json.RawMessage(`"x"`)))
		})
	}
}
