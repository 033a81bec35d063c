package auth

// LoginRequest represents the credentials posted to /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	TOTPCode string `json:"totpCode" binding:"omitempty,len=6,numeric"`
}

// RefreshRequest carries the refresh token for clients that do not use cookies
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest optionally carries the refresh token to revoke alongside the access token
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}
