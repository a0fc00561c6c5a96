package auth

import "time"

// DevTokenRequest is the payload of POST /v1/auth/dev-token.
type DevTokenRequest struct {
	UserID string `json:"user_id"`
}

// TokenResponse carries an issued token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
