package user

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"teamboard-api/internal/logger"
	"teamboard-api/internal/middleware"
	"teamboard-api/internal/user"
	"teamboard-api/pkg/status"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const avatarFormField = "avatar"

// NewHandler creates a new user handler. avatars may be nil when object storage is not configured.
func NewHandler(userService UserService, avatars AvatarStore, maxAvatarBytes int64, log *logger.Logger) *Handler {
	return &Handler{
		userService:    userService,
		avatars:        avatars,
		validator:      user.NewUserValidator(),
		maxAvatarBytes: maxAvatarBytes,
		logger:         log,
	}
}

// GetMe returns the authenticated user's profile from the session snapshot
func (h *Handler) GetMe(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		status.Abort(c, status.CodeNoToken, "")
		return
	}

	profile := profileFromSnapshot(s.User)
	h.attachAvatarURL(&profile, s.User.Avatar)
	c.JSON(http.StatusOK, NewUserResponse(profile, status.StatusOK))
}

// GetUser returns any user's profile from the primary store
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) || errors.Is(err, user.ErrInvalidInput) {
			status.Abort(c, status.CodeNotFound, "User not found")
			return
		}
		h.logger.SecureLog(err, "Failed to load user", "getUser")
		status.Abort(c, status.CodeInternal, "")
		return
	}

	profile := profileFromSnapshot(u.Snapshot())
	h.attachAvatarURL(&profile, u.Avatar)
	c.JSON(http.StatusOK, NewUserResponse(profile, status.StatusOK))
}

// UploadAvatar stores a new avatar image for the authenticated user.
// The cached user snapshot keeps the old avatar until it expires.
func (h *Handler) UploadAvatar(c *gin.Context) {
	s, ok := middleware.GetSession(c)
	if !ok {
		status.Abort(c, status.CodeNoToken, "")
		return
	}
	if h.avatars == nil {
		status.Abort(c, status.CodeServiceUnavailable, "Avatar storage is not configured")
		return
	}

	if h.maxAvatarBytes > 0 {
		// leave room for the multipart framing
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxAvatarBytes+64<<10)
	}

	fileHeader, err := c.FormFile(avatarFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			status.Abort(c, status.CodePayloadTooLarge, "")
			return
		}
		status.Abort(c, status.CodeBadRequest, "Missing avatar file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.SecureLog(err, "Failed to open avatar upload", "uploadAvatar")
		status.Abort(c, status.CodeBadRequest, "Unreadable avatar file")
		return
	}
	defer file.Close()

	contentType, err := sniffContentType(file)
	if err != nil {
		h.logger.SecureLog(err, "Failed to read avatar upload", "uploadAvatar")
		status.Abort(c, status.CodeBadRequest, "Unreadable avatar file")
		return
	}

	if err := h.validator.ValidateAvatar(contentType, fileHeader.Size, h.maxAvatarBytes); err != nil {
		switch {
		case errors.Is(err, user.ErrUnsupportedAvatar):
			status.Abort(c, status.CodeUnsupportedMedia, err.Error())
		case errors.Is(err, user.ErrAvatarTooLarge):
			status.Abort(c, status.CodePayloadTooLarge, err.Error())
		default:
			status.Abort(c, status.CodeBadRequest, err.Error())
		}
		return
	}

	ctx := c.Request.Context()
	key, err := h.avatars.PutAvatar(ctx, s.User.ID, user.AvatarExtension(contentType), contentType, file)
	if err != nil {
		h.logger.SecureLog(err, "Failed to upload avatar", "uploadAvatar")
		status.Abort(c, status.CodeServiceUnavailable, "")
		return
	}

	if err := h.userService.SetAvatar(ctx, s.User.ID, key); err != nil {
		h.logger.SecureLog(err, "Failed to store avatar key", "uploadAvatar")
		if delErr := h.avatars.DeleteObject(ctx, key); delErr != nil {
			h.logger.WithFields(logrus.Fields{"key": key, "error": delErr.Error()}).Warn("Failed to remove orphaned avatar")
		}
		status.Abort(c, status.CodeInternal, "")
		return
	}

	h.logger.WithFields(logrus.Fields{"userID": s.User.ID, "size": fileHeader.Size}).Info("Avatar updated")

	profile := profileFromSnapshot(s.User)
	h.attachAvatarURL(&profile, key)
	c.JSON(http.StatusOK, NewUserResponse(profile, status.StatusFileUploaded))
}

// attachAvatarURL signs a download URL for key when storage is configured
func (h *Handler) attachAvatarURL(p *Profile, key string) {
	if h.avatars == nil || key == "" {
		return
	}
	url, expiresAt, err := h.avatars.GetDownloadPresignedURL(key)
	if err != nil {
		h.logger.WithFields(logrus.Fields{"userID": p.ID, "error": err.Error()}).Warn("Failed to sign avatar URL")
		return
	}
	p.AvatarURL = url
	p.AvatarExpiresAt = expiresAt.Unix()
}

// sniffContentType detects the image type from the file's first bytes and rewinds it
func sniffContentType(file io.ReadSeeker) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	contentType := http.DetectContentType(head[:n])
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return contentType, nil
}
