package auth

import (
	"github.com/google/uuid"

	"github.com/jaummdev/nexa-ecommerce-backend/pkg/enums"
)

// Identity is the authenticated caller, resolved once per request from the
// access token and passed by value into services.
type Identity struct {
	UserID uuid.UUID
	Role   enums.Role
}

// IdentityFromClaims builds the caller identity carried by verified claims.
func IdentityFromClaims(claims *AccessTokenClaims) Identity {
	return Identity{UserID: claims.UserID, Role: claims.Role}
}
