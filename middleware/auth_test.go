package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-storefront/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextHandler(called *bool, claims **utils.Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if c, ok := r.Context().Value(UserContextKey).(*utils.Claims); ok {
			*claims = c
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	utils.JwtKey = []byte("test-secret")
	token, err := utils.GenerateJWT("64f1c0ffee0000000000abcd", "user@example.com", "user")
	require.NoError(t, err)

	var called bool
	var claims *utils.Claims
	handler := AuthMiddleware(nextHandler(&called, &claims))

	req := httptest.NewRequest("GET", "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	require.NotNil(t, claims)
	assert.Equal(t, "64f1c0ffee0000000000abcd", claims.UserID)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	var called bool
	var claims *utils.Claims
	handler := AuthMiddleware(nextHandler(&called, &claims))

	req := httptest.NewRequest("GET", "/api/user/profile", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	utils.JwtKey = []byte("test-secret")

	var called bool
	var claims *utils.Claims
	handler := AuthMiddleware(nextHandler(&called, &claims))

	req := httptest.NewRequest("GET", "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAdminMiddlewareRejectsNonAdmin(t *testing.T) {
	var called bool
	var claims *utils.Claims
	handler := AdminMiddleware(nextHandler(&called, &claims))

	req := httptest.NewRequest("POST", "/api/product", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}
