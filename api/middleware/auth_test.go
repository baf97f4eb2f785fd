package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaummdev/nexa-ecommerce-backend/pkg/auth"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/config"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/enums"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "nexa-ecommerce", ExpirationMinutes: 60}

func mintTestToken(t *testing.T, now time.Time, role enums.Role) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := auth.MintAccessToken(testJWT, now, auth.AccessTokenPayload{UserID: userID, Role: role})
	require.NoError(t, err)
	return token, userID
}

func serveAuth(t *testing.T, header string, next http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	if next == nil {
		next = okHandler
	}
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	Auth(testJWT, nil)(next).ServeHTTP(rec, req)
	return rec
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func TestAuthRejections(t *testing.T) {
	expired, _ := mintTestToken(t, time.Now().Add(-2*time.Hour), enums.RoleCustomer)

	noIdentity, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testJWT.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testJWT.Secret))
	require.NoError(t, err)

	cases := map[string]struct {
		header string
		msg    string
	}{
		"missing header": {"", MsgAuthHeaderRequired},
		"wrong scheme":   {"Token abc", MsgAuthFormat},
		"lowercase":      {"bearer abc", MsgAuthFormat},
		"empty token":    {"Bearer ", MsgTokenRequired},
		"bearer only":    {"Bearer", MsgTokenRequired},
		"garbage token":  {"Bearer not-a-jwt", MsgTokenInvalid},
		"expired token":  {"Bearer " + expired, MsgTokenExpired},
		"no identity":    {"Bearer " + noIdentity, MsgTokenPayload},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serveAuth(t, tc.header, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tc.msg, messageOf(t, rec))
		})
	}
}

func TestAuthAttachesIdentity(t *testing.T) {
	token, userID := mintTestToken(t, time.Now(), enums.RoleAdmin)

	var captured Identity
	rec := serveAuth(t, "Bearer "+token, func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		captured = identity
		w.WriteHeader(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, captured.UserID)
	assert.Equal(t, enums.RoleAdmin, captured.Role)
}

func TestAuthorizePolicy(t *testing.T) {
	admin := enums.RoleAdmin
	customer := Identity{UserID: uuid.New(), Role: enums.RoleCustomer}

	assert.NoError(t, Authorize(nil, customer))
	assert.NoError(t, Authorize(&admin, Identity{UserID: uuid.New(), Role: enums.RoleAdmin}))
	assert.Error(t, Authorize(&admin, customer))
	assert.Error(t, Authorize(nil, Identity{}))
}

func TestRequireRole(t *testing.T) {
	token, _ := mintTestToken(t, time.Now(), enums.RoleCustomer)
	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Auth(testJWT, nil)(RequireRole(enums.RoleAdmin, nil)(http.HandlerFunc(okHandler))).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, MsgForbiddenRole, messageOf(t, rec))
}
