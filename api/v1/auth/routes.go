// api/v1/auth/routes.go
package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers the credential endpoints; limiters run before each handler
func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler, limiters ...gin.HandlerFunc) {
	authGroup := r.Group("/auth", limiters...)

	authGroup.POST("/login", h.HandleLogin)
	authGroup.POST("/refresh", h.HandleRefresh)
}

// RegisterProtectedRoutes registers routes that need an authenticated session
func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	authGroup := r.Group("/auth")

	authGroup.POST("/logout", h.HandleLogout)
}
