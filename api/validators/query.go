package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/jaummdev/nexa-ecommerce-backend/pkg/errors"
)

// QueryFlag reports whether the query parameter key is present with a truthy
// value. A bare "?key" counts as true; "false" and "0" do not.
func QueryFlag(r *http.Request, key string) bool {
	values, ok := r.URL.Query()[key]
	if !ok {
		return false
	}
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(values[0])) {
	case "false", "0", "no":
		return false
	}
	return true
}

// URLParamUUID parses the chi URL parameter key as a UUID. A malformed id
// yields notFoundMessage so clients cannot tell bad ids from missing ones.
func URLParamUUID(r *http.Request, key, notFoundMessage string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, key)))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	return id, nil
}

// URLParamInt parses the chi URL parameter key as a positive integer id.
func URLParamInt(r *http.Request, key, notFoundMessage string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(chi.URLParam(r, key)))
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	return id, nil
}
