package session

import (
	"teamboard-api/internal/session"
	"teamboard-api/internal/socket"

	"github.com/golang-jwt/jwt/v4"
)

// BaseResponse contains fields common to all responses
type BaseResponse struct {
	Code int16 `json:"code"`
}

// CurrentSession describes the verified caller
type CurrentSession struct {
	UserID          string `json:"userId"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	Status          string `json:"status"`
	TokenID         string `json:"tokenId,omitempty"`
	Source          string `json:"source"`
	IssuedAt        int64  `json:"issuedAt,omitempty"`
	ExpiresAt       int64  `json:"expiresAt,omitempty"`
	AuthenticatedAt int64  `json:"authenticatedAt"`
}

// SessionResponse wraps the current session
type SessionResponse struct {
	BaseResponse
	Session CurrentSession `json:"session"`
}

// RoomResponse lists who is present in a room
type RoomResponse struct {
	BaseResponse
	RoomID    string            `json:"roomId"`
	Occupants []socket.Occupant `json:"occupants"`
}

// StatsResponse summarizes the connection registry
type StatsResponse struct {
	BaseResponse
	Connections int `json:"connections"`
	Rooms       int `json:"rooms"`
}

// NewSessionResponse builds the response from a verified session
func NewSessionResponse(s *session.Session, code int16) SessionResponse {
	current := CurrentSession{
		UserID:          s.User.ID,
		Email:           s.User.Email,
		Role:            s.User.Role,
		Status:          s.User.Status,
		Source:          s.Source,
		AuthenticatedAt: s.AuthenticatedAt.Unix(),
	}
	if s.Claims != nil {
		current.TokenID = s.Claims.ID
		current.IssuedAt = unix(s.Claims.IssuedAt)
		current.ExpiresAt = unix(s.Claims.ExpiresAt)
	}
	return SessionResponse{BaseResponse: BaseResponse{Code: code}, Session: current}
}

func unix(d *jwt.NumericDate) int64 {
	if d == nil {
		return 0
	}
	return d.Unix()
}
