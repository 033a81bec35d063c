package middleware

import (
	"encoding/json"
	"net/http"

	"teamboard-api/internal/logger"
	"teamboard-api/pkg/config"
	"teamboard-api/pkg/status"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/sirupsen/logrus"
)

// CSRFMiddleware protects requests that rely on auth cookies.
// Requests carrying a bearer token, or none of cookieNames, are passed through.
func CSRFMiddleware(cfg *config.CSRFConfig, log *logger.Logger, cookieNames ...string) gin.HandlerFunc {
	protect := csrf.Protect(
		[]byte(cfg.Secret),
		csrf.Secure(cfg.Secure),
		csrf.HttpOnly(true),
		csrf.Path("/"),
		csrf.CookieName("csrfToken"),
		csrf.MaxAge(3600), // 1 hour
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.WithFields(logrus.Fields{
				"path":      r.URL.Path,
				"method":    r.Method,
				"userAgent": r.UserAgent(),
				"reason":    csrf.FailureReason(r),
			}).Warn("CSRF token mismatch")

			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(status.NewErrorEnvelope(status.CodeCSRFMismatch, "CSRF token mismatch"))
		})),
	)

	return func(c *gin.Context) {
		if !usesCookieAuth(c, cookieNames) && c.FullPath() != "/api/v1/csrf" {
			c.Next()
			return
		}

		passed := false
		protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}

// usesCookieAuth reports whether the request would authenticate through a cookie
func usesCookieAuth(c *gin.Context, cookieNames []string) bool {
	if BearerToken(c.GetHeader("Authorization")) != "" {
		return false
	}
	for _, name := range cookieNames {
		if cookie, err := c.Cookie(name); err == nil && cookie != "" {
			return true
		}
	}
	return false
}
