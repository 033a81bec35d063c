package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teamboard-api/internal/jwt"
	"teamboard-api/internal/logger"
	"teamboard-api/internal/middleware"
	"teamboard-api/internal/models"
	"teamboard-api/internal/session"
	"teamboard-api/internal/socket"
	"teamboard-api/pkg/status"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issued = time.Unix(1_800_000_000, 0)

func userSession(id, role string) *session.Session {
	return &session.Session{
		Token: "access-" + id,
		Claims: &jwt.Claims{
			UserID: id,
			Role:   role,
			RegisteredClaims: jwtlib.RegisteredClaims{
				ID:        "jti-" + id,
				IssuedAt:  jwtlib.NewNumericDate(issued),
				ExpiresAt: jwtlib.NewNumericDate(issued.Add(15 * time.Minute)),
			},
		},
		User: &models.UserSnapshot{
			ID:          id,
			Email:       id + "@example.com",
			Role:        role,
			Status:      models.StatusActive,
			DisplayName: "User " + id,
		},
		Source:          session.SourceCache,
		AuthenticatedAt: issued.Add(time.Minute),
	}
}

func newTestRouter(hub *socket.Hub, s *session.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/api/v1", func(c *gin.Context) {
		c.Set(middleware.ContextKeySession, s)
		c.Next()
	})
	RegisterProtectedRoutes(group, NewHandler(hub, logger.Discard()))
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetCurrentSession(t *testing.T) {
	hub := socket.NewHub(socket.HubOptions{}, logger.Discard())
	w := get(newTestRouter(hub, userSession("user-1", models.RoleMember)), "/api/v1/sessions/current")

	require.Equal(t, http.StatusOK, w.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user-1", resp.Session.UserID)
	assert.Equal(t, "jti-user-1", resp.Session.TokenID)
	assert.Equal(t, session.SourceCache, resp.Session.Source)
	assert.Equal(t, issued.Unix(), resp.Session.IssuedAt)
	assert.Equal(t, issued.Add(15*time.Minute).Unix(), resp.Session.ExpiresAt)
	assert.NotContains(t, w.Body.String(), "access-user-1")
}

func TestGetRoomOccupants(t *testing.T) {
	hub := socket.NewHub(socket.HubOptions{}, logger.Discard())
	conn := socket.NewConn(nil, userSession("user-2", models.RoleMember), 8, logger.Discard().WithField("test", t.Name()))
	hub.Register(conn)
	require.NoError(t, socket.NewPresence(hub, conn).Join("project-7"))

	r := newTestRouter(hub, userSession("user-1", models.RoleMember))

	w := get(r, "/api/v1/sessions/rooms/project-7")
	require.Equal(t, http.StatusOK, w.Code)
	var resp RoomResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Occupants, 1)
	assert.Equal(t, "user-2", resp.Occupants[0].UserID)
	assert.Equal(t, conn.ID(), resp.Occupants[0].SocketID)

	w = get(r, "/api/v1/sessions/rooms/empty-room")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"occupants":[]`)

	w = get(r, "/api/v1/sessions/rooms/%20bad")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStats_AdminOnly(t *testing.T) {
	hub := socket.NewHub(socket.HubOptions{}, logger.Discard())
	conn := socket.NewConn(nil, userSession("user-2", models.RoleMember), 8, logger.Discard().WithField("test", t.Name()))
	hub.Register(conn)
	require.NoError(t, socket.NewPresence(hub, conn).Join("project-7"))

	w := get(newTestRouter(hub, userSession("user-1", models.RoleMember)), "/api/v1/sessions/stats")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(newTestRouter(hub, userSession("admin-1", models.RoleAdmin)), "/api/v1/sessions/stats")
	require.Equal(t, http.StatusOK, w.Code)
	var resp StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, status.StatusOK, resp.Code)
	assert.Equal(t, 1, resp.Connections)
	assert.Equal(t, 1, resp.Rooms)
}
