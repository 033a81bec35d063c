package socket

import (
	"encoding/json"
	"fmt"
	"testing"

	"teamboard-api/internal/logger"
	"teamboard-api/internal/models"
	"teamboard-api/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Ack   string          `json:"ack"`
}

func testSession(userID string) *session.Session {
	return &session.Session{
		User: &models.UserSnapshot{
			ID:          userID,
			Email:       userID + "@example.com",
			Role:        models.RoleMember,
			Status:      models.StatusActive,
			DisplayName: "User " + userID,
		},
	}
}

func newTestHub(maxRoomSize int) *Hub {
	return NewHub(HubOptions{MaxRoomSize: maxRoomSize}, logger.Discard())
}

// connect registers a queue-only connection and returns its tracker
func connect(t *testing.T, hub *Hub, userID string) (*Conn, *Presence) {
	t.Helper()
	conn := NewConn(nil, testSession(userID), 32, logger.Discard().WithField("test", t.Name()))
	hub.Register(conn)
	return conn, NewPresence(hub, conn)
}

// drain returns every frame queued on conn so far
func drain(t *testing.T, conn *Conn) []frame {
	t.Helper()
	var out []frame
	for {
		select {
		case raw, ok := <-conn.send:
			if !ok {
				return out
			}
			var f frame
			require.NoError(t, json.Unmarshal(raw, &f))
			out = append(out, f)
		default:
			return out
		}
	}
}

func events(frames []frame) []string {
	names := make([]string, 0, len(frames))
	for _, f := range frames {
		names = append(names, f.Event)
	}
	return names
}

func TestPresence_JoinNotifiesJoinerAndPeers(t *testing.T) {
	hub := newTestHub(10)
	alice, alicePresence := connect(t, hub, "alice")
	bob, bobPresence := connect(t, hub, "bob")

	require.NoError(t, alicePresence.Join("project-1"))
	frames := drain(t, alice)
	require.Len(t, frames, 1)
	assert.Equal(t, EventRoomUsers, frames[0].Event)

	require.NoError(t, bobPresence.Join("project-1"))

	bobFrames := drain(t, bob)
	require.Len(t, bobFrames, 1)
	assert.Equal(t, EventRoomUsers, bobFrames[0].Event)
	var users RoomUsersPayload
	require.NoError(t, json.Unmarshal(bobFrames[0].Data, &users))
	assert.Equal(t, "project-1", users.RoomID)
	require.Len(t, users.Users, 2)
	ids := []string{users.Users[0].UserID, users.Users[1].UserID}
	assert.ElementsMatch(t, []string{"alice", "bob"}, ids)

	aliceFrames := drain(t, alice)
	require.Len(t, aliceFrames, 1)
	assert.Equal(t, EventRoomUserJoined, aliceFrames[0].Event)
	var joined UserJoinedPayload
	require.NoError(t, json.Unmarshal(aliceFrames[0].Data, &joined))
	assert.Equal(t, "bob", joined.User.UserID)
	assert.Equal(t, bob.ID(), joined.User.SocketID)
	assert.Equal(t, "User bob", joined.User.DisplayName)

	assert.Equal(t, "project-1", bobPresence.Room())
	assert.Len(t, hub.Occupants("project-1"), 2)
}

func TestPresence_JoinSameRoomIsNoop(t *testing.T) {
	hub := newTestHub(10)
	alice, alicePresence := connect(t, hub, "alice")
	bob, bobPresence := connect(t, hub, "bob")

	require.NoError(t, alicePresence.Join("project-1"))
	require.NoError(t, bobPresence.Join("project-1"))
	drain(t, alice)
	drain(t, bob)

	require.NoError(t, bobPresence.Join("project-1"))

	assert.Empty(t, drain(t, alice))
	assert.Empty(t, drain(t, bob))
	assert.Len(t, hub.Occupants("project-1"), 2)
}

func TestPresence_SwitchingRoomsLeavesFirst(t *testing.T) {
	hub := newTestHub(10)
	alice, alicePresence := connect(t, hub, "alice")
	bob, bobPresence := connect(t, hub, "bob")
	carol, carolPresence := connect(t, hub, "carol")

	require.NoError(t, alicePresence.Join("project-1"))
	require.NoError(t, bobPresence.Join("project-1"))
	require.NoError(t, carolPresence.Join("project-2"))
	drain(t, alice)
	drain(t, bob)
	drain(t, carol)

	require.NoError(t, alicePresence.Join("project-2"))

	bobFrames := drain(t, bob)
	require.Len(t, bobFrames, 1)
	assert.Equal(t, EventRoomUserLeft, bobFrames[0].Event)
	var left UserLeftPayload
	require.NoError(t, json.Unmarshal(bobFrames[0].Data, &left))
	assert.Equal(t, UserLeftPayload{RoomID: "project-1", UserID: "alice", SocketID: alice.ID()}, left)

	assert.Equal(t, []string{EventRoomUserJoined}, events(drain(t, carol)))
	assert.Equal(t, []string{EventRoomUsers}, events(drain(t, alice)))

	assert.Equal(t, "project-2", alicePresence.Room())
	assert.Len(t, hub.Occupants("project-1"), 1)
	assert.Len(t, hub.Occupants("project-2"), 2)
}

func TestPresence_LeaveWithoutRoomIsNoop(t *testing.T) {
	hub := newTestHub(10)
	alice, alicePresence := connect(t, hub, "alice")

	require.NoError(t, alicePresence.Leave())
	assert.Empty(t, drain(t, alice))
	assert.Equal(t, "", alicePresence.Room())
}

func TestPresence_LeaveNotifiesRemaining(t *testing.T) {
	hub := newTestHub(10)
	alice, alicePresence := connect(t, hub, "alice")
	bob, bobPresence := connect(t, hub, "bob")

	require.NoError(t, alicePresence.Join("project-1"))
	require.NoError(t, bobPresence.Join("project-1"))
	drain(t, alice)
	drain(t, bob)

	require.NoError(t, bobPresence.Leave())

	assert.Equal(t, []string{EventRoomUserLeft}, events(drain(t, alice)))
	assert.Empty(t, drain(t, bob))
	assert.Equal(t, "", bobPresence.Room())

	require.NoError(t, alicePresence.Leave())
	assert.Equal(t, 0, hub.Rooms())
}

func TestPresence_RejectedJoinKeepsState(t *testing.T) {
	hub := newTestHub(2)
	alice, alicePresence := connect(t, hub, "alice")
	bob, bobPresence := connect(t, hub, "bob")
	carol, carolPresence := connect(t, hub, "carol")
	dave, davePresence := connect(t, hub, "dave")

	require.NoError(t, alicePresence.Join("full-room"))
	require.NoError(t, bobPresence.Join("full-room"))
	require.NoError(t, carolPresence.Join("lobby"))
	require.NoError(t, davePresence.Join("lobby"))
	for _, c := range []*Conn{alice, bob, carol, dave} {
		drain(t, c)
	}

	err := carolPresence.Join("full-room")
	assert.ErrorIs(t, err, ErrRoomFull)

	assert.Equal(t, "lobby", carolPresence.Room())
	assert.Len(t, hub.Occupants("lobby"), 2)
	assert.Len(t, hub.Occupants("full-room"), 2)
	for _, c := range []*Conn{alice, bob, carol, dave} {
		assert.Empty(t, drain(t, c), "no events for %s", c.UserID())
	}

	for _, id := range []string{"", "has space", "bad/slash", fmt.Sprintf("%065d", 0)} {
		err := carolPresence.Join(id)
		assert.ErrorIs(t, err, ErrInvalidRoomID, "room id %q", id)
		assert.Equal(t, "lobby", carolPresence.Room())
	}
}

func TestPresence_EmptyRoomIDRejected(t *testing.T) {
	hub := newTestHub(10)
	alice, alicePresence := connect(t, hub, "alice")
	bob, bobPresence := connect(t, hub, "bob")

	assert.ErrorIs(t, alicePresence.Join(""), ErrInvalidRoomID)
	assert.Equal(t, "", alicePresence.Room())
	assert.Empty(t, drain(t, alice))

	require.NoError(t, alicePresence.Join("project-1"))
	require.NoError(t, bobPresence.Join("project-1"))
	drain(t, alice)
	drain(t, bob)

	assert.ErrorIs(t, alicePresence.Join(""), ErrInvalidRoomID)
	assert.Equal(t, "project-1", alicePresence.Room())
	assert.Len(t, hub.Occupants("project-1"), 2)
	assert.Empty(t, drain(t, alice))
	assert.Empty(t, drain(t, bob))
}

func TestPresence_ClosedConnectionCannotJoin(t *testing.T) {
	hub := newTestHub(10)
	alice, alicePresence := connect(t, hub, "alice")

	alice.Close()

	assert.ErrorIs(t, alicePresence.Join("project-1"), ErrConnectionClosed)
	assert.Equal(t, "", alicePresence.Room())
	assert.ErrorIs(t, alice.Emit(EventAck, AckPayload{Success: true}, ""), ErrConnectionClosed)
}

func TestPresence_UnregisteredConnectionCannotJoin(t *testing.T) {
	hub := newTestHub(10)
	conn := NewConn(nil, testSession("ghost"), 4, logger.Discard().WithField("test", t.Name()))

	assert.ErrorIs(t, NewPresence(hub, conn).Join("project-1"), ErrNotRegistered)
}

func TestPresence_DisconnectReleasesMembership(t *testing.T) {
	hub := newTestHub(10)
	alice, alicePresence := connect(t, hub, "alice")
	bob, bobPresence := connect(t, hub, "bob")

	require.NoError(t, alicePresence.Join("project-1"))
	require.NoError(t, bobPresence.Join("project-1"))
	drain(t, alice)
	drain(t, bob)

	bobPresence.Disconnect()

	assert.Equal(t, []string{EventRoomUserLeft}, events(drain(t, alice)))
	assert.True(t, bob.Closed())
	assert.Equal(t, 1, hub.Connections())
	assert.Len(t, hub.Occupants("project-1"), 1)

	// a second disconnect is harmless
	bobPresence.Disconnect()
}

func TestConn_EmitDropsWhenQueueFull(t *testing.T) {
	conn := NewConn(nil, testSession("alice"), 1, logger.Discard().WithField("test", t.Name()))

	require.NoError(t, conn.Emit(EventAck, AckPayload{Success: true}, "1"))
	assert.ErrorIs(t, conn.Emit(EventAck, AckPayload{Success: true}, "2"), ErrSendQueueFull)
}

func TestHub_ShutdownClosesConnections(t *testing.T) {
	hub := newTestHub(10)
	alice, _ := connect(t, hub, "alice")
	bob, _ := connect(t, hub, "bob")

	hub.Shutdown()

	assert.True(t, alice.Closed())
	assert.True(t, bob.Closed())
}
