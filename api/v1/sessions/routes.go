package session

import (
	"teamboard-api/internal/middleware"
	"teamboard-api/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterProtectedRoutes registers session routes; r must already be authenticated
func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	sessionGroup := r.Group("/sessions")

	sessionGroup.GET("/current", h.GetCurrentSession)
	sessionGroup.GET("/rooms/:roomId", h.GetRoomOccupants)
	sessionGroup.GET("/stats", middleware.RoleRequiredMiddleware(models.RoleAdmin), h.GetStats)
}
