package middleware

import (
	"context"

	"github.com/jaummdev/nexa-ecommerce-backend/pkg/auth"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// Identity is the authenticated caller attached by Auth.
type Identity = auth.Identity

// WithIdentity stores the caller identity on ctx.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, identity)
}

// IdentityFromContext returns the identity stored by Auth, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(ctxIdentity).(Identity)
	return identity, ok
}

func UserIDFromContext(ctx context.Context) string {
	if identity, ok := IdentityFromContext(ctx); ok {
		return identity.UserID.String()
	}
	return ""
}
