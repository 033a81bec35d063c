package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"teamboard-api/internal/logger"
	"teamboard-api/pkg/config"
	"teamboard-api/pkg/status"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCSRFMiddleware_OnlyGuardsCookieAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.CSRFConfig{Enabled: true, Secret: "0123456789abcdef0123456789abcdef"}

	r := gin.New()
	r.Use(CSRFMiddleware(cfg, logger.Discard(), "accessToken", "refreshToken"))
	r.POST("/api/v1/auth/logout", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	t.Run("cookie without csrf token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "tok"})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), string(status.CodeCSRFMismatch))
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "tok"})
		req.Header.Set("Authorization", "Bearer tok")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("no auth cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
