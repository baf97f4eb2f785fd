package controllers

import (
	"net/http"

	"github.com/jaummdev/nexa-ecommerce-backend/api/middleware"
	pkgerrors "github.com/jaummdev/nexa-ecommerce-backend/pkg/errors"
)

// requireIdentity returns the caller attached by middleware.Auth. Routes that
// reach it without Auth are misconfigured, so the error is a 401 rather than a panic.
func requireIdentity(r *http.Request) (middleware.Identity, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return middleware.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, middleware.MsgAuthHeaderRequired)
	}
	if err := middleware.Authorize(nil, identity); err != nil {
		return middleware.Identity{}, err
	}
	return identity, nil
}

func unavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable")
}
