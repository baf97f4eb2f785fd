package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/jaummdev/nexa-ecommerce-backend/pkg/errors"
)

func TestDecodeJSONBody(t *testing.T) {
	var body struct {
		Email string `json:"email"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","extra":true}`))
	require.NoError(t, DecodeJSONBody(req, &body))
	assert.Equal(t, "a@b.co", body.Email)
}

func TestDecodeJSONBodyEmpty(t *testing.T) {
	var body struct{ Email string }
	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	require.NoError(t, DecodeJSONBody(req, &body))
	assert.Empty(t, body.Email)
}

func TestDecodeJSONBodyMalformed(t *testing.T) {
	var body struct{ Email string }
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestQueryFlag(t *testing.T) {
	cases := map[string]bool{
		"/register":             false,
		"/register?admin":       true,
		"/register?admin=true":  true,
		"/register?admin=1":     true,
		"/register?admin=false": false,
		"/register?admin=0":     false,
	}
	for target, want := range cases {
		req := httptest.NewRequest(http.MethodPost, target, nil)
		assert.Equal(t, want, QueryFlag(req, "admin"), target)
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestURLParamUUID(t *testing.T) {
	id := uuid.New()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", id.String())
	got, err := URLParamUUID(req, "id", "Order not found")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "nope")
	_, err = URLParamUUID(req, "id", "Order not found")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "Order not found", typed.Message())
}

func TestURLParamInt(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "7")
	got, err := URLParamInt(req, "id", "Banner not found to update")
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	for _, raw := range []string{"", "0", "-3", "abc"} {
		req = withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", raw)
		_, err = URLParamInt(req, "id", "Banner not found to update")
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), raw)
	}
}
