package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID uint, role string, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func protectedRouter(middlewares ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(middlewares, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c), "staff": IsStaff(c)})
	})
	r.GET("/protected", handlers...)
	return r
}

func get(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestValidateTokenMissingHeader(t *testing.T) {
	r := protectedRouter(ValidateToken(testSecret))
	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	r := protectedRouter(ValidateToken(testSecret))
	token := signToken(t, 7, "user", "other-secret")
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+token).Code)
}

func TestValidateTokenExpired(t *testing.T) {
	r := protectedRouter(ValidateToken(testSecret))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"role":    "user",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+signed).Code)
}

func TestValidateTokenSetsIdentity(t *testing.T) {
	r := protectedRouter(ValidateToken(testSecret))
	token := signToken(t, 7, "user", testSecret)

	w := get(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id": 7, "staff": false}`, w.Body.String())
}

func TestOptionalTokenLetsAnonymousThrough(t *testing.T) {
	r := protectedRouter(OptionalToken(testSecret))

	w := get(r, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id": 0, "staff": false}`, w.Body.String())
}

func TestOptionalTokenIgnoresInvalidToken(t *testing.T) {
	r := protectedRouter(OptionalToken(testSecret))

	w := get(r, "Bearer not-a-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id": 0, "staff": false}`, w.Body.String())
}

func TestRequireStaff(t *testing.T) {
	r := protectedRouter(ValidateToken(testSecret), RequireStaff())

	user := signToken(t, 7, "user", testSecret)
	assert.Equal(t, http.StatusForbidden, get(r, "Bearer "+user).Code)

	staff := signToken(t, 8, "staff", testSecret)
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+staff).Code)
}
