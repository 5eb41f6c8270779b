// AngelaMos | 2026
// dto.go

package auth

import "time"

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

// LoginResponse carries the bearer token; clients send it back as
// "Authorization: Bearer <token>" until ExpiresAt.
type LoginResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}
