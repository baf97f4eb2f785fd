package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jaummdev/nexa-ecommerce-backend/api/responses"
	pkgAuth "github.com/jaummdev/nexa-ecommerce-backend/pkg/auth"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/config"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/enums"
	pkgerrors "github.com/jaummdev/nexa-ecommerce-backend/pkg/errors"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/logger"
)

const (
	MsgAuthHeaderRequired = "Authorization header is required"
	MsgAuthFormat         = "Invalid authorization format. Use: Bearer <token>"
	MsgTokenRequired      = "Token is required"
	MsgTokenPayload       = "Invalid token payload"
	MsgTokenInvalid       = "Invalid token"
	MsgTokenExpired       = "Token expired"
	MsgForbiddenRole      = "Unauthorized. You do not have permission to access this resource"
)

// Auth validates the bearer token and stores the caller Identity on the request context.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := authenticate(cfg, r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			if logg != nil {
				ctx = logg.WithUserID(ctx, identity.UserID.String())
				ctx = logg.WithActorRole(ctx, identity.Role.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(cfg config.JWTConfig, header string) (Identity, error) {
	if strings.TrimSpace(header) == "" {
		return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, MsgAuthHeaderRequired)
	}

	parts := strings.Split(header, " ")
	if parts[0] != "Bearer" {
		return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, MsgAuthFormat)
	}
	if len(parts) < 2 || parts[1] == "" {
		return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, MsgTokenRequired)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, parts[1])
	switch {
	case err == nil:
		return pkgAuth.IdentityFromClaims(claims), nil
	case pkgAuth.IsExpired(err):
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, MsgTokenExpired)
	case errors.Is(err, pkgAuth.ErrInvalidPayload):
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, MsgTokenPayload)
	default:
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, MsgTokenInvalid)
	}
}

// Authorize is the role policy: a nil required role admits any authenticated
// caller, otherwise the caller's role must match exactly.
func Authorize(required *enums.Role, identity Identity) error {
	if !identity.Role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, MsgForbiddenRole)
	}
	if required != nil && identity.Role != *required {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, MsgForbiddenRole)
	}
	return nil
}

// RequireRole rejects callers whose identity does not satisfy Authorize. It
// must run after Auth.
func RequireRole(role enums.Role, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, _ := IdentityFromContext(r.Context())
			if err := Authorize(&role, identity); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
