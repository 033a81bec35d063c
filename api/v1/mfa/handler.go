package mfa

import (
	"errors"
	"net/http"

	"teamboard-api/internal/logger"
	"teamboard-api/internal/mfa"
	"teamboard-api/internal/middleware"
	"teamboard-api/pkg/status"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewHandler creates a new MFA handler
func NewHandler(service MFAService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// HandleStatus reports whether the caller has TOTP enabled
func (h *Handler) HandleStatus(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		status.Abort(c, status.CodeNoToken, "")
		return
	}

	enabled, err := h.service.IsTOTPEnabled(c.Request.Context(), s.User.ID)
	if err != nil {
		h.abort(c, err, "totpStatus")
		return
	}
	c.JSON(http.StatusOK, StatusResponse{BaseResponse: BaseResponse{Code: status.StatusOK}, Enabled: enabled})
}

// HandleSetup generates a secret the caller confirms through HandleEnable
func (h *Handler) HandleSetup(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		status.Abort(c, status.CodeNoToken, "")
		return
	}

	data, err := h.service.Setup(c.Request.Context(), s.User.ID, s.User.Email)
	if err != nil {
		h.abort(c, err, "totpSetup")
		return
	}
	c.JSON(http.StatusOK, NewSetupResponse(data.Secret, data.QRCodeURL, data.ExpiresAt))
}

// HandleEnable confirms the pending secret with a code
func (h *Handler) HandleEnable(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		status.Abort(c, status.CodeNoToken, "")
		return
	}

	var req CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, NewValidationError(err))
		return
	}

	if err := h.service.Enable(c.Request.Context(), s.User.ID, req.Code); err != nil {
		h.abort(c, err, "totpEnable")
		return
	}
	c.JSON(http.StatusOK, BaseResponse{Code: status.StatusMFAEnabled, Message: "TOTP enabled"})
}

// HandleDisable removes TOTP after checking a current code
func (h *Handler) HandleDisable(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		status.Abort(c, status.CodeNoToken, "")
		return
	}

	var req CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, NewValidationError(err))
		return
	}

	if err := h.service.Disable(c.Request.Context(), s.User.ID, req.Code); err != nil {
		h.abort(c, err, "totpDisable")
		return
	}
	c.JSON(http.StatusOK, BaseResponse{Code: status.StatusMFADisabled, Message: "TOTP disabled"})
}

// abort maps service errors onto the error envelope
func (h *Handler) abort(c *gin.Context, err error, route string) {
	switch {
	case errors.Is(err, mfa.ErrInvalidInput), errors.Is(err, mfa.ErrInvalidTOTPCode):
		status.Abort(c, status.CodeBadRequest, err.Error())
	case errors.Is(err, mfa.ErrTOTPAlreadyEnabled):
		status.Abort(c, status.CodeConflict, err.Error())
	case errors.Is(err, mfa.ErrTOTPNotEnabled), errors.Is(err, mfa.ErrTOTPNotInitialized):
		status.Abort(c, status.CodeNotFound, err.Error())
	case errors.Is(err, mfa.ErrUserNotFound):
		status.Abort(c, status.CodeUserNotFound, "")
	case errors.Is(err, mfa.ErrUnavailable):
		h.logger.SecureLog(err, "MFA store unavailable", route)
		status.Abort(c, status.CodeServiceUnavailable, "")
	default:
		h.logger.WithFields(logrus.Fields{"route": route, "error": err.Error()}).Error("MFA operation failed")
		status.Abort(c, status.CodeInternal, "")
	}
}
