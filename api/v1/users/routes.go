package user

import (
	"teamboard-api/internal/middleware"
	"teamboard-api/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterProtectedRoutes registers user routes; r must already be authenticated
func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	userGroup := r.Group("/users")

	userGroup.GET("/me", h.GetMe)
	userGroup.PUT("/me/avatar", h.UploadAvatar)
	userGroup.GET("/:id", middleware.RoleRequiredMiddleware(models.RoleAdmin), h.GetUser)
}
