package middleware

import (
	"time"

	"teamboard-api/internal/logger"
	"teamboard-api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader     = "X-Request-ID"
	ContextKeyRequestID = "requestID"
)

// RequestLogger tags each request with an id and logs it once the handler chain returns
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = utils.GenerateShortID()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		entry := log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
		})
		if s, ok := GetSession(c); ok && s.User != nil {
			entry = entry.WithField("userID", s.User.ID)
		}

		switch {
		case c.Writer.Status() >= 500:
			entry.Warn("Request failed")
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Info("Request completed with errors")
		default:
			entry.Debug("Request completed")
		}
	}
}
