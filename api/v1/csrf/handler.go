package csrf

import (
	"errors"
	"net/http"
	"time"

	"teamboard-api/internal/logger"
	"teamboard-api/pkg/status"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// tokenLifetime is advisory; gorilla/csrf tokens stay valid as long as the cookie does
const tokenLifetime = time.Hour

// Handler handles HTTP requests for CSRF tokens
type Handler struct {
	logger *logger.Logger
}

// NewHandler creates a new CSRF handler
func NewHandler(logger *logger.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

// HandleCSRFToken returns the masked token for the current CSRF cookie
func (h *Handler) HandleCSRFToken(c *gin.Context) {
	token := csrf.Token(c.Request)
	if token == "" {
		h.logger.SecureLog(errors.New("returned empty token"), "Failed to generate CSRF token", "/csrf")
		status.Abort(c, status.CodeInternal, "Internal server error, please try again later")
		return
	}
	c.Header("X-CSRF-Token", token)
	c.JSON(http.StatusOK, NewResponse(token, time.Now().Add(tokenLifetime).Unix()))
}
