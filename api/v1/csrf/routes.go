package csrf

import (
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers the token endpoint; it must sit behind the CSRF middleware
func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	csrfGroup := r.Group("/csrf")
	csrfGroup.GET("", h.HandleCSRFToken)
}
