package dto

import "time"

// LoginRequest carries the access PIN.
type LoginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// LoginResponse returns the session token and the role it carries.
type LoginResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}
