package dto

import "time"

// UnlockRequest carries the PIN used to open a session.
type UnlockRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// SetPINRequest sets or changes the PIN. CurrentPIN is required when a PIN is already set.
type SetPINRequest struct {
	CurrentPIN string `json:"currentPin"`
	NewPIN     string `json:"newPin" binding:"required,numeric,min=4,max=12"`
}

// ClearPINRequest removes the PIN.
type ClearPINRequest struct {
	CurrentPIN string `json:"currentPin" binding:"required"`
}

// AuthResponse is returned after a successful unlock.
type AuthResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// AuthStatusResponse tells clients whether they need to unlock first.
type AuthStatusResponse struct {
	PINRequired bool `json:"pinRequired"`
}
