package dto

import "time"

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	DisplayName          string `json:"display_name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Code                 string `json:"code"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// RecoverPasswordRequest resets a password given the account's roster code.
type RecoverPasswordRequest struct {
	Email                string `json:"email"`
	Code                 string `json:"code"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// RecoverPasswordResponse never says why an update did not happen.
type RecoverPasswordResponse struct {
	Updated bool `json:"updated"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
