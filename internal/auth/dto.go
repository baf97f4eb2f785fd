package auth

import (
	"github.com/jaummdev/nexa-ecommerce-backend/internal/users"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint. Role is
// optional; when present it must match the account's role.
type LoginRequest struct {
	Email    string     `json:"email" validate:"required"`
	Password string     `json:"password" validate:"required"`
	Role     enums.Role `json:"role,omitempty"`
}

// LoginResponse carries the signed access token and the public user.
type LoginResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}

// RegisterRequest is the sign-up payload. Phone is mandatory for customers only.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
}
