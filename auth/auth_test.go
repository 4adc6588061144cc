package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pethood-np/pethood-api/config"
	"github.com/pethood-np/pethood-api/mailer"
	"github.com/pethood-np/pethood-api/models"
)

const testJWTSecret = "test-secret"

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.EmailVerificationToken{},
		&models.Cart{}, &models.CartItem{},
	))

	// no SMTP host: every send is skipped
	m := mailer.New(config.SMTP{}, "http://localhost:8080")

	r := gin.New()
	r.POST("/auth/signup", Signup(db, m))
	r.GET("/auth/verify", Verify(db))
	r.POST("/auth/login", Login(db, testJWTSecret))
	return r, db
}

func postJSON(r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func signup(r *gin.Engine, username, email, password string) *httptest.ResponseRecorder {
	return postJSON(r, "/auth/signup", SignupInput{
		Username:  username,
		Email:     email,
		Password1: password,
		Password2: password,
	})
}

func TestSignupCreatesInactiveUserWithCart(t *testing.T) {
	r, db := setupRouter(t)

	w := signup(r, "nabin", "nabin@example.com", "hunter2hunter2")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, db.Where("username = ?", "nabin").First(&user).Error)
	assert.False(t, user.IsActive)
	assert.NotEqual(t, "hunter2hunter2", user.Password)

	var cartCount, tokenCount int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&cartCount).Error)
	require.NoError(t, db.Model(&models.EmailVerificationToken{}).Where("user_id = ?", user.ID).Count(&tokenCount).Error)
	assert.EqualValues(t, 1, cartCount)
	assert.EqualValues(t, 1, tokenCount)
}

func TestSignupRejectsPasswordMismatch(t *testing.T) {
	r, _ := setupRouter(t)

	w := postJSON(r, "/auth/signup", SignupInput{
		Username:  "nabin",
		Email:     "nabin@example.com",
		Password1: "hunter2hunter2",
		Password2: "different9999",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupRejectsDuplicateUsernameCaseInsensitive(t *testing.T) {
	r, _ := setupRouter(t)

	require.Equal(t, http.StatusCreated, signup(r, "Nabin", "nabin@example.com", "hunter2hunter2").Code)
	w := signup(r, "nabin", "other@example.com", "hunter2hunter2")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginBlockedUntilVerified(t *testing.T) {
	r, db := setupRouter(t)

	require.Equal(t, http.StatusCreated, signup(r, "nabin", "nabin@example.com", "hunter2hunter2").Code)

	w := postJSON(r, "/auth/login", LoginInput{Username: "nabin", Password: "hunter2hunter2"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var token models.EmailVerificationToken
	require.NoError(t, db.First(&token).Error)

	verify := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/verify?token="+token.Token, nil)
	r.ServeHTTP(verify, req)
	require.Equal(t, http.StatusOK, verify.Code, verify.Body.String())

	w = postJSON(r, "/auth/login", LoginInput{Username: "nabin", Password: "hunter2hunter2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	// Token is single-use.
	var tokenCount int64
	require.NoError(t, db.Model(&models.EmailVerificationToken{}).Count(&tokenCount).Error)
	assert.EqualValues(t, 0, tokenCount)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	r, db := setupRouter(t)

	require.Equal(t, http.StatusCreated, signup(r, "nabin", "nabin@example.com", "hunter2hunter2").Code)
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "nabin").
		Update("is_active", true).Error)

	w := postJSON(r, "/auth/login", LoginInput{Username: "nabin", Password: "wrongwrong99"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
