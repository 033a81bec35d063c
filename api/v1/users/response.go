package user

import (
	"teamboard-api/internal/models"
)

// BaseResponse contains fields common to all responses
type BaseResponse struct {
	Code int16 `json:"code"`
}

// Profile is the public view of a user
type Profile struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	Status          string `json:"status"`
	DisplayName     string `json:"displayName"`
	AvatarURL       string `json:"avatarUrl,omitempty"`
	AvatarExpiresAt int64  `json:"avatarExpiresAt,omitempty"`
}

// UserResponse wraps a profile
type UserResponse struct {
	BaseResponse
	User Profile `json:"user"`
}

// NewUserResponse creates a new user response
func NewUserResponse(p Profile, code int16) UserResponse {
	return UserResponse{
		BaseResponse: BaseResponse{Code: code},
		User:         p,
	}
}

func profileFromSnapshot(s *models.UserSnapshot) Profile {
	return Profile{
		ID:          s.ID,
		Email:       s.Email,
		Role:        s.Role,
		Status:      s.Status,
		DisplayName: s.DisplayName,
	}
}
