package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/jaummdev/nexa-ecommerce-backend/pkg/errors"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/logger"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestWriteMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteMessage(w, http.StatusCreated, "Cart created successfully", "cart", map[string]string{"id": "c1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	body := decode(t, w)
	assert.Equal(t, "Cart created successfully", body["message"])
	assert.Equal(t, "c1", body["cart"].(map[string]any)["id"])
}

func TestWriteErrorExposesClientMessages(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{pkgerrors.New(pkgerrors.CodeValidation, "Status is required"), http.StatusBadRequest, "Status is required"},
		{pkgerrors.New(pkgerrors.CodeUnauthorized, "Token expired"), http.StatusUnauthorized, "Token expired"},
		{pkgerrors.New(pkgerrors.CodeNotFound, "Cart not found"), http.StatusNotFound, "Cart not found"},
		{pkgerrors.New(pkgerrors.CodeRateLimit, ""), http.StatusTooManyRequests, "Too many requests"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		WriteError(context.Background(), logger.Nop(), w, tc.err)
		assert.Equal(t, tc.status, w.Code)
		assert.Equal(t, tc.msg, decode(t, w)["message"])
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("pq: relation missing"), "load cart"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decode(t, w)["message"])

	w = httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decode(t, w)["message"])
}

func TestWriteErrorIncludesValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "All fields are required to create a product").
		WithDetails(map[string]string{"price": "required"})
	WriteError(context.Background(), nil, w, err)

	body := decode(t, w)
	assert.Equal(t, "required", body["details"].(map[string]any)["price"])
}
