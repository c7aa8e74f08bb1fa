package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret, userID, role string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(expiresIn).Unix(),
		"iat":     time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func newProtectedRouter(adminGate bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(testSecret)}
	if adminGate {
		handlers = append(handlers, AdminOnly())
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": GetUserID(c), "role": GetRole(c)})
	})
	router.GET("/protected", handlers...)
	return router
}

func get(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router := newProtectedRouter(false)
	token := signTestToken(t, testSecret, "u1", "user", time.Hour)

	recorder := get(router, token)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "u1")
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router := newProtectedRouter(false)

	recorder := get(router, "")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	router := newProtectedRouter(false)
	token := signTestToken(t, "other-secret", "u1", "user", time.Hour)

	recorder := get(router, token)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	router := newProtectedRouter(false)
	token := signTestToken(t, testSecret, "u1", "user", -time.Minute)

	recorder := get(router, token)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAdminOnly(t *testing.T) {
	router := newProtectedRouter(true)

	recorder := get(router, signTestToken(t, testSecret, "u1", "user", time.Hour))
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = get(router, signTestToken(t, testSecret, "admin-1", "admin", time.Hour))
	assert.Equal(t, http.StatusOK, recorder.Code)
}
