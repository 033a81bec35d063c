package models

import (
	"time"

	"gorm.io/gorm"

	"teamboard-api/internal/utils"
)

// Roles a user can hold
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Account statuses; only StatusActive may authenticate
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// User represents the authoritative user record in the primary store
type User struct {
	ID           string  `gorm:"primaryKey;column:id"`
	Email        string  `gorm:"column:email;size:100;not null;unique;index:idx_users_email"`
	PasswordHash string  `gorm:"column:password_hash;size:100;not null"`
	Role         string  `gorm:"column:role;size:20;not null;default:'member'"`
	Status       string  `gorm:"column:status;size:20;not null;default:'active'"`
	DisplayName  string  `gorm:"column:display_name;size:50"`
	Avatar       string  `gorm:"column:avatar;size:255"`
	TOTPSecret   *string `gorm:"column:totp_secret;size:64;default:null"`
	CreatedAt    int64   `gorm:"column:created_at;autoCreateTime:false;not null"`
	ModifiedAt   int64   `gorm:"column:modified_at;autoCreateTime:false;not null"`
	LastLogin    int64   `gorm:"column:last_login;autoCreateTime:false"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook for User
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now().Unix()
	if u.ID == "" {
		u.ID = utils.GenerateUserID()
	}
	if u.CreatedAt == 0 {
		u.CreatedAt = now
	}
	if u.ModifiedAt == 0 {
		u.ModifiedAt = now
	}
	return nil
}

// BeforeUpdate hook for User
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.ModifiedAt = time.Now().Unix()
	return nil
}

// IsActive reports whether the account may authenticate
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// HasTOTP reports whether login requires a second factor
func (u *User) HasTOTP() bool {
	return u.TOTPSecret != nil && *u.TOTPSecret != ""
}

// Snapshot returns the denormalized copy kept in the user cache
func (u *User) Snapshot() *UserSnapshot {
	return &UserSnapshot{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role,
		Status:      u.Status,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
	}
}

// UserSnapshot is the cached, denormalized view of a user
type UserSnapshot struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
}

// IsActive reports whether the snapshot describes an account that may authenticate
func (s *UserSnapshot) IsActive() bool {
	return s.Status == StatusActive
}

// Valid reports whether a decoded snapshot carries the fields the auth gate depends on
func (s *UserSnapshot) Valid() bool {
	return s.ID != "" && s.Role != "" && s.Status != ""
}
