package middleware

import (
	"strings"

	"teamboard-api/internal/logger"
	"teamboard-api/internal/metrics"
	"teamboard-api/internal/session"
	"teamboard-api/pkg/status"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Context keys set by AuthMiddleware
const (
	ContextKeySession     = "session"
	ContextKeyUserID      = "userID"
	ContextKeyRole        = "role"
	ContextKeyTokenSource = "tokenSource"
)

// Token sources recorded under ContextKeyTokenSource
const (
	TokenSourceCookie = "cookie"
	TokenSourceHeader = "header"
)

// AuthMiddleware authenticates REST requests through the shared session verifier.
// The access token is read from cookieName first, then from "Authorization: Bearer".
func AuthMiddleware(verifier session.SessionVerifier, cookieName string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, source := ExtractToken(c, cookieName)

		s, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			reason := session.ReasonOf(err)
			metrics.AuthDecisions.WithLabelValues("http", string(reason)).Inc()

			entry := log.WithFields(logrus.Fields{
				"path":   c.FullPath(),
				"reason": reason,
				"ip":     c.ClientIP(),
			})
			if reason == status.CodeServiceUnavailable {
				entry.WithError(err).Error("Authentication unavailable")
			} else {
				entry.Debug("Authentication rejected")
			}

			status.Abort(c, reason, "")
			return
		}

		metrics.AuthDecisions.WithLabelValues("http", "authorized").Inc()
		setSessionInContext(c, s, source)
		c.Next()
	}
}

// ExtractToken returns the access token and where it was found
func ExtractToken(c *gin.Context, cookieName string) (string, string) {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie, TokenSourceCookie
	}

	if token := BearerToken(c.GetHeader("Authorization")); token != "" {
		return token, TokenSourceHeader
	}

	return "", ""
}

// BearerToken parses an "Authorization: Bearer <token>" header value
func BearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// setSessionInContext attaches the session to both the gin and request contexts
func setSessionInContext(c *gin.Context, s *session.Session, source string) {
	c.Set(ContextKeySession, s)
	c.Set(ContextKeyUserID, s.User.ID)
	c.Set(ContextKeyRole, s.User.Role)
	c.Set(ContextKeyTokenSource, source)
	c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), s))
}

// GetSession returns the session attached by AuthMiddleware
func GetSession(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(ContextKeySession)
	if !exists {
		return nil, false
	}
	s, ok := value.(*session.Session)
	return s, ok && s != nil
}

// RoleRequiredMiddleware creates a middleware that requires one of the given roles
func RoleRequiredMiddleware(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := GetSession(c)
		if !ok {
			status.Abort(c, status.CodeNoToken, "")
			return
		}

		if !s.HasRole(requiredRoles...) {
			metrics.AuthDecisions.WithLabelValues("http", string(status.CodeForbidden)).Inc()
			status.Abort(c, status.CodeForbidden, "")
			return
		}

		c.Next()
	}
}
