package socket

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"teamboard-api/internal/logger"
	"teamboard-api/internal/session"
	"teamboard-api/pkg/status"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifierFunc func(ctx context.Context, token string) (*session.Session, error)

func (f verifierFunc) Verify(ctx context.Context, token string) (*session.Session, error) {
	return f(ctx, token)
}

// tokenVerifier accepts tokens of the form "valid-<userID>"
var tokenVerifier = verifierFunc(func(_ context.Context, token string) (*session.Session, error) {
	switch {
	case token == "":
		return nil, &session.AuthError{Reason: status.CodeNoToken}
	case token == "revoked":
		return nil, &session.AuthError{Reason: status.CodeRevoked}
	case strings.HasPrefix(token, "valid-"):
		return testSession(strings.TrimPrefix(token, "valid-")), nil
	default:
		return nil, &session.AuthError{Reason: status.CodeInvalidToken}
	}
})

func newSocketServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := newTestHub(10)
	handler := NewHandler(tokenVerifier, hub, HandlerOptions{}, logger.Discard())

	r := gin.New()
	r.GET("/ws", handler.Serve)

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Shutdown()
		srv.Close()
	})
	return srv, hub
}

func wsURL(srv *httptest.Server, query string) string {
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	if query != "" {
		u += "?" + query
	}
	return u
}

func dial(t *testing.T, url string, header http.Header) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func readFrame(t *testing.T, ws *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(t, ws.ReadJSON(&f))
	return f
}

func TestHandler_RejectsHandshake(t *testing.T) {
	srv, hub := newSocketServer(t)

	cases := []struct {
		name   string
		query  string
		header http.Header
		reason status.Code
	}{
		{name: "no token", reason: status.CodeNoToken},
		{name: "invalid", query: "token=garbage", reason: status.CodeInvalidToken},
		{name: "revoked bearer", header: http.Header{"Authorization": {"Bearer revoked"}}, reason: status.CodeRevoked},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ws, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, tc.query), tc.header)
			require.ErrorIs(t, err, websocket.ErrBadHandshake)
			assert.Nil(t, ws)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var envelope status.ErrorEnvelope
			require.NoError(t, json.Unmarshal(body, &envelope))
			assert.False(t, envelope.Success)
			assert.Equal(t, tc.reason, envelope.Error.Code)
		})
	}

	assert.Equal(t, 0, hub.Connections())
}

func TestHandler_HandshakeTokenSources(t *testing.T) {
	h := NewHandler(tokenVerifier, newTestHub(1), HandlerOptions{CookieName: "accessToken"}, logger.Discard())

	r := httptest.NewRequest(http.MethodGet, "/ws?token=from-query", nil)
	r.Header.Set("Authorization", "Bearer from-header")
	r.AddCookie(&http.Cookie{Name: "accessToken", Value: "from-cookie"})
	assert.Equal(t, "from-query", h.HandshakeToken(r))

	r = httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Authorization", "Bearer from-header")
	r.AddCookie(&http.Cookie{Name: "accessToken", Value: "from-cookie"})
	assert.Equal(t, "from-header", h.HandshakeToken(r))

	r = httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.AddCookie(&http.Cookie{Name: "accessToken", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", h.HandshakeToken(r))

	assert.Equal(t, "", h.HandshakeToken(httptest.NewRequest(http.MethodGet, "/ws", nil)))
}

func TestHandler_RoomFlow(t *testing.T) {
	srv, hub := newSocketServer(t)

	alice := dial(t, wsURL(srv, "token=valid-alice"), nil)
	bob := dial(t, wsURL(srv, ""), http.Header{"Cookie": {"accessToken=valid-bob"}})

	require.NoError(t, alice.WriteJSON(Inbound{Event: EventRoomJoin, Data: json.RawMessage(`{"roomId":"project-1"}`), Ack: "a1"}))
	users := readFrame(t, alice)
	assert.Equal(t, EventRoomUsers, users.Event)
	ack := readFrame(t, alice)
	assert.Equal(t, EventAck, ack.Event)
	assert.Equal(t, "a1", ack.Ack)
	assert.JSONEq(t, `{"success":true}`, string(ack.Data))

	require.NoError(t, bob.WriteJSON(Inbound{Event: EventRoomJoin, Data: json.RawMessage(`{"roomId":"project-1"}`), Ack: "b1"}))
	var payload RoomUsersPayload
	require.NoError(t, json.Unmarshal(readFrame(t, bob).Data, &payload))
	assert.Len(t, payload.Users, 2)
	assert.Equal(t, "b1", readFrame(t, bob).Ack)

	joined := readFrame(t, alice)
	assert.Equal(t, EventRoomUserJoined, joined.Event)

	// invalid room id is acked with an error
	require.NoError(t, bob.WriteJSON(Inbound{Event: EventRoomJoin, Data: json.RawMessage(`{"roomId":"bad room"}`), Ack: "b2"}))
	failed := readFrame(t, bob)
	assert.Equal(t, "b2", failed.Ack)
	var failure AckPayload
	require.NoError(t, json.Unmarshal(failed.Data, &failure))
	assert.False(t, failure.Success)
	assert.Equal(t, ErrInvalidRoomID.Error(), failure.Error)

	// a join without data is rejected and bob stays in project-1
	require.NoError(t, bob.WriteJSON(Inbound{Event: EventRoomJoin, Ack: "b3"}))
	failed = readFrame(t, bob)
	assert.Equal(t, EventAck, failed.Event)
	assert.Equal(t, "b3", failed.Ack)
	require.NoError(t, json.Unmarshal(failed.Data, &failure))
	assert.False(t, failure.Success)
	assert.Equal(t, ErrInvalidRoomID.Error(), failure.Error)
	assert.Len(t, hub.Occupants("project-1"), 2)

	// disconnecting bob notifies alice
	require.NoError(t, bob.Close())
	left := readFrame(t, alice)
	assert.Equal(t, EventRoomUserLeft, left.Event)

	assert.Eventually(t, func() bool { return hub.Connections() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandler_LeaveAndUnknownEvents(t *testing.T) {
	srv, _ := newSocketServer(t)
	alice := dial(t, wsURL(srv, "token=valid-alice"), nil)

	require.NoError(t, alice.WriteJSON(Inbound{Event: EventRoomLeave, Ack: "l1"}))
	ack := readFrame(t, alice)
	assert.Equal(t, "l1", ack.Ack)
	assert.JSONEq(t, `{"success":true}`, string(ack.Data))

	require.NoError(t, alice.WriteJSON(Inbound{Event: "task:create", Ack: "x1"}))
	unknown := readFrame(t, alice)
	assert.Equal(t, EventError, unknown.Event)
	assert.Equal(t, "x1", unknown.Ack)

	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, EventError, readFrame(t, alice).Event)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://app.teamboard.dev/"})

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, check(r), "no origin header")

	r.Header.Set("Origin", "https://app.teamboard.dev")
	assert.True(t, check(r))

	r.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(r))

	assert.True(t, originChecker(nil)(r))
	assert.True(t, originChecker([]string{"*"})(r))
}
