package session

import (
	"net/http"

	"teamboard-api/internal/logger"
	"teamboard-api/internal/middleware"
	"teamboard-api/internal/socket"
	"teamboard-api/pkg/status"

	"github.com/gin-gonic/gin"
)

// NewHandler creates a new session handler
func NewHandler(presence Presence, log *logger.Logger) *Handler {
	return &Handler{
		presence: presence,
		logger:   log,
	}
}

// GetCurrentSession describes the session the request was authenticated with
func (h *Handler) GetCurrentSession(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		status.Abort(c, status.CodeNoToken, "")
		return
	}
	c.JSON(http.StatusOK, NewSessionResponse(s, status.StatusOK))
}

// GetRoomOccupants lists the sockets currently joined to a room
func (h *Handler) GetRoomOccupants(c *gin.Context) {
	roomID := c.Param("roomId")
	if !socket.ValidRoomID(roomID) {
		status.Abort(c, status.CodeBadRequest, "Invalid room id")
		return
	}

	occupants := h.presence.Occupants(roomID)
	if occupants == nil {
		occupants = []socket.Occupant{}
	}
	c.JSON(http.StatusOK, RoomResponse{
		BaseResponse: BaseResponse{Code: status.StatusOK},
		RoomID:       roomID,
		Occupants:    occupants,
	})
}

// GetStats reports how many sockets and rooms are live on this instance
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, StatsResponse{
		BaseResponse: BaseResponse{Code: status.StatusOK},
		Connections:  h.presence.Connections(),
		Rooms:        h.presence.Rooms(),
	})
}
