package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jaummdev/nexa-ecommerce-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.Role
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID  `json:"userId"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// HasIdentity reports whether the claims carry a usable user id and role.
func (c *AccessTokenClaims) HasIdentity() bool {
	return c != nil && c.UserID != uuid.Nil && c.Role.IsValid()
}
