package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"teamboard-api/internal/auth"
	"teamboard-api/internal/logger"
	"teamboard-api/internal/metrics"
	"teamboard-api/internal/middleware"
	"teamboard-api/pkg/status"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const refreshCookiePath = "/api/v1/auth"

// NewHandler creates a new auth handler
func NewHandler(authService AuthService, cookies CookieOptions, log *logger.Logger) *Handler {
	if cookies.AccessName == "" {
		cookies.AccessName = "accessToken"
	}
	if cookies.RefreshName == "" {
		cookies.RefreshName = "refreshToken"
	}
	return &Handler{
		authService: authService,
		cookies:     cookies,
		logger:      log,
	}
}

// HandleLogin verifies credentials and sets the session cookies
func (h *Handler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.SecureLog(err, "Invalid request format", "login")
		c.JSON(http.StatusUnprocessableEntity, NewValidationError(err))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password, req.TOTPCode)
	if err != nil {
		code := errorCode(err)
		if code == status.CodeServiceUnavailable || code == status.CodeInternal {
			h.logger.SecureLog(err, "Login failed", "login")
		} else {
			h.logger.WithFields(logrus.Fields{"reason": code, "ip": c.ClientIP()}).Info("Login rejected")
		}
		status.Abort(c, code, publicMessage(code, err))
		return
	}

	h.setSessionCookies(c, result)
	c.JSON(http.StatusOK, NewTokenResponse(result.Pair, result.User, status.StatusLoginSuccess))
}

// HandleRefresh rotates the refresh token from the cookie or request body
func (h *Handler) HandleRefresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(h.cookies.RefreshName)
	if refreshToken == "" {
		var req RefreshRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusUnprocessableEntity, NewValidationError(err))
				return
			}
		}
		refreshToken = req.RefreshToken
	}
	if refreshToken == "" {
		metrics.TokenRefreshes.WithLabelValues(string(status.CodeNoToken)).Inc()
		status.Abort(c, status.CodeNoToken, "Refresh token required")
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		code := errorCode(err)
		metrics.TokenRefreshes.WithLabelValues(string(code)).Inc()
		if code == status.CodeServiceUnavailable || code == status.CodeInternal {
			h.logger.SecureLog(err, "Token refresh failed", "refresh")
		}
		h.clearSessionCookies(c)
		status.Abort(c, code, publicMessage(code, err))
		return
	}

	metrics.TokenRefreshes.WithLabelValues("refreshed").Inc()
	h.setSessionCookies(c, result)
	c.JSON(http.StatusOK, NewTokenResponse(result.Pair, result.User, status.StatusTokenRefreshed))
}

// HandleLogout revokes the current tokens and clears the cookies
func (h *Handler) HandleLogout(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		status.Abort(c, status.CodeNoToken, "")
		return
	}

	refreshToken, _ := c.Cookie(h.cookies.RefreshName)
	if refreshToken == "" && c.Request.ContentLength > 0 {
		var req LogoutRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	if err := h.authService.Logout(c.Request.Context(), s.Token, s.Claims, refreshToken); err != nil {
		h.logger.SecureLog(err, "Logout failed", "logout")
		status.Abort(c, errorCode(err), "")
		return
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, NewSuccessResponse("Logged out successfully", status.StatusLogoutSuccess))
}

func (h *Handler) setSessionCookies(c *gin.Context, result *auth.Result) {
	pair := result.Pair
	accessAge := int(pair.ExpiresIn)
	refreshAge := int(time.Until(pair.RefreshExpiresAt).Seconds())

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookies.AccessName, pair.AccessToken, accessAge, "/", h.cookies.Domain, h.cookies.Secure, true)
	c.SetCookie(h.cookies.RefreshName, pair.RefreshToken, refreshAge, refreshCookiePath, h.cookies.Domain, h.cookies.Secure, true)
}

func (h *Handler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookies.AccessName, "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
	c.SetCookie(h.cookies.RefreshName, "", -1, refreshCookiePath, h.cookies.Domain, h.cookies.Secure, true)
}

// publicMessage hides the cause of server-side failures
func publicMessage(code status.Code, err error) string {
	if code == status.CodeServiceUnavailable || code == status.CodeInternal {
		return ""
	}
	return err.Error()
}

// errorCode maps auth service errors onto envelope codes
func errorCode(err error) status.Code {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		return status.CodeBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		return status.CodeInvalidCredentials
	case errors.Is(err, auth.ErrMFARequired):
		return status.CodeMFARequired
	case errors.Is(err, auth.ErrInvalidMFACode):
		return status.CodeInvalidMFACode
	case errors.Is(err, auth.ErrAccountInactive):
		return status.CodeAccountInactive
	case errors.Is(err, auth.ErrRefreshRevoked):
		return status.CodeRevoked
	case errors.Is(err, auth.ErrRefreshExpired):
		return status.CodeTokenExpired
	case errors.Is(err, auth.ErrInvalidRefresh):
		return status.CodeInvalidToken
	case errors.Is(err, auth.ErrUnavailable):
		return status.CodeServiceUnavailable
	default:
		return status.CodeInternal
	}
}
