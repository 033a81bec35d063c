package mfa

import (
	"github.com/gin-gonic/gin"
)

// RegisterProtectedRoutes registers the TOTP enrollment routes; r must already be authenticated
func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	mfa := r.Group("/mfa/totp")

	mfa.GET("", h.HandleStatus)
	mfa.POST("/setup", h.HandleSetup)
	mfa.POST("/enable", h.HandleEnable)
	mfa.POST("/disable", h.HandleDisable)
}
