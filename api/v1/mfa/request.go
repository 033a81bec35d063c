package mfa

// CodeRequest carries a TOTP code to confirm enrollment or removal
type CodeRequest struct {
	Code string `json:"code" binding:"required,min=6,max=9"`
}
