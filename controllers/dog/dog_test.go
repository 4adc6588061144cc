package dogControllers

import (
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

	"github.com/pethood-np/pethood-api/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:dog_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Address{}, &models.Dog{}, &models.DogImage{},
	))
	return db
}

func seedLister(t *testing.T, db *gorm.DB, withAddress bool) *models.User {
	t.Helper()
	user := models.User{Username: "lister", Email: "lister@example.com", Password: "x", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	if withAddress {
		addr := models.Address{UserID: user.ID, AddressLine: "Thamel 12", City: "Kathmandu", Phone: "9800000001"}
		require.NoError(t, models.CreateAddress(db, &addr))
	}
	return &user
}

func TestSubmitListingRequiresDefaultAddress(t *testing.T) {
	db := setupTestDB(t)
	user := seedLister(t, db, false)

	dog := models.Dog{Name: "Rex", Breed: "Husky", Gender: models.GenderMale, ListerID: user.ID}
	err := SubmitListing(db, &dog)
	assert.ErrorIs(t, err, ErrNoDefaultAddress)
}

func TestSubmitListingRequiresAddressPhone(t *testing.T) {
	db := setupTestDB(t)
	user := seedLister(t, db, false)
	addr := models.Address{UserID: user.ID, AddressLine: "Thamel 12", City: "Kathmandu", Phone: ""}
	// bypass CreateAddress so the phone stays empty
	addr.IsDefault = true
	require.NoError(t, db.Create(&addr).Error)

	dog := models.Dog{Name: "Rex", Breed: "Husky", Gender: models.GenderMale, ListerID: user.ID}
	err := SubmitListing(db, &dog)
	assert.ErrorIs(t, err, ErrNoDefaultAddress)
}

func TestSubmitListingStartsUnapprovedWithUniqueSlug(t *testing.T) {
	db := setupTestDB(t)
	user := seedLister(t, db, true)

	first := models.Dog{Name: "Rex", Breed: "Husky", Gender: models.GenderMale, ListerID: user.ID, IsApproved: true}
	require.NoError(t, SubmitListing(db, &first))
	assert.Equal(t, "rex", first.Slug)
	assert.False(t, first.IsApproved, "submission must not be able to self-approve")

	second := models.Dog{Name: "Rex", Breed: "Husky", Gender: models.GenderMale, ListerID: user.ID}
	require.NoError(t, SubmitListing(db, &second))
	assert.Equal(t, "rex-1", second.Slug)
}

func TestListDogsShowsOnlyApprovedUnadopted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	user := seedLister(t, db, true)

	dogs := []models.Dog{
		{Name: "Visible", Slug: "visible", Breed: "Lab", ListerID: user.ID, IsApproved: true},
		{Name: "Pending", Slug: "pending", Breed: "Lab", ListerID: user.ID},
		{Name: "Adopted", Slug: "adopted", Breed: "Lab", ListerID: user.ID, IsApproved: true, IsAdopted: true},
	}
	for i := range dogs {
		require.NoError(t, db.Create(&dogs[i]).Error)
	}

	r := gin.New()
	r.GET("/dogs", ListDogs(db))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dogs", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "visible")
	assert.NotContains(t, w.Body.String(), "pending")
	assert.NotContains(t, w.Body.String(), `"adopted"`)
}

func TestGetDogHidesUnapprovedFromPublic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	user := seedLister(t, db, true)

	dog := models.Dog{Name: "Pending", Slug: "pending", Breed: "Lab", ListerID: user.ID}
	require.NoError(t, db.Create(&dog).Error)

	r := gin.New()
	r.GET("/dogs/:slug", GetDog(db))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dogs/pending", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDogVisibleToOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	user := seedLister(t, db, true)

	dog := models.Dog{Name: "Pending", Slug: "pending", Breed: "Lab", ListerID: user.ID}
	require.NoError(t, db.Create(&dog).Error)

	r := gin.New()
	r.GET("/dogs/:slug", func(c *gin.Context) {
		c.Set("user_id", user.ID)
	}, GetDog(db))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dogs/pending", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
