package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"retail-service/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var signingSecret = []byte("test-signing-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func setupJWTRouter() *gin.Engine {
	r := gin.New()
	authed := r.Group("", middleware.RequireJWT(signingSecret))
	authed.GET("/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(middleware.UserContextKey)})
	})
	authed.DELETE("/stores/abc", middleware.AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireJWT_MissingToken(t *testing.T) {
	r := setupJWTRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireJWT_MalformedToken(t *testing.T) {
	r := setupJWTRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireJWT_WrongSecret(t *testing.T) {
	r := setupJWTRouter()
	token := signToken(t, []byte("some-other-secret"), jwt.MapClaims{
		"sub": "u-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireJWT_ExpiredToken(t *testing.T) {
	r := setupJWTRouter()
	token := signToken(t, signingSecret, jwt.MapClaims{
		"sub": "u-42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireJWT_SetsIdentityFromClaims(t *testing.T) {
	r := setupJWTRouter()
	token := signToken(t, signingSecret, jwt.MapClaims{
		"sub":  "u-42",
		"role": "staff",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-42")
}

func TestRequireJWT_AdminRouteForbiddenForStaff(t *testing.T) {
	r := setupJWTRouter()
	token := signToken(t, signingSecret, jwt.MapClaims{
		"sub":  "u-42",
		"role": "staff",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/stores/abc", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireJWT_AdminRouteAllowsAdmin(t *testing.T) {
	r := setupJWTRouter()
	token := signToken(t, signingSecret, jwt.MapClaims{
		"sub":  "u-1",
		"role": middleware.AdminRole,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/stores/abc", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthMiddleware_HeaderIdentity(t *testing.T) {
	r := gin.New()
	r.GET("/orders", middleware.AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(middleware.UserContextKey)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("X-User-ID", "u-7")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u-7")
}
