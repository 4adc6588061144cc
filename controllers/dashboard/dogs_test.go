package dashboardControllers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pethood-np/pethood-api/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:dashboard_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Dog{}, &models.DogImage{},
		&models.Order{}, &models.OrderItem{}, &models.Product{},
	))
	return db
}

func seedDog(t *testing.T, db *gorm.DB, approved, adopted bool) *models.Dog {
	t.Helper()
	lister := models.User{Username: "lister", Email: "lister@example.com", Password: "x", IsActive: true}
	require.NoError(t, db.Create(&lister).Error)

	dog := models.Dog{
		Name:       "Rex",
		Slug:       "rex",
		Breed:      "Husky",
		Gender:     models.GenderMale,
		ListerID:   lister.ID,
		IsApproved: approved,
		IsAdopted:  adopted,
		Images: []models.DogImage{
			{Image: "/media/dogs/rex-1.jpg"},
			{Image: "/media/dogs/rex-2.jpg"},
		},
	}
	require.NoError(t, db.Create(&dog).Error)
	return &dog
}

func TestApproveDogPublishesListing(t *testing.T) {
	db := setupTestDB(t)
	dog := seedDog(t, db, false, false)

	approved, err := ApproveDog(db, dog.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	var reloaded models.Dog
	require.NoError(t, db.First(&reloaded, dog.ID).Error)
	assert.True(t, reloaded.IsApproved)
}

func TestApproveDogTwiceConflicts(t *testing.T) {
	db := setupTestDB(t)
	dog := seedDog(t, db, true, false)

	_, err := ApproveDog(db, dog.ID)
	assert.ErrorIs(t, err, ErrAlreadyApproved)
}

func TestRejectDogDeletesListingAndImages(t *testing.T) {
	db := setupTestDB(t)
	dog := seedDog(t, db, false, false)

	rejected, err := RejectDog(db, dog.ID)
	require.NoError(t, err)
	assert.Equal(t, dog.ID, rejected.ID)

	var dogCount, imageCount int64
	require.NoError(t, db.Model(&models.Dog{}).Count(&dogCount).Error)
	require.NoError(t, db.Model(&models.DogImage{}).Count(&imageCount).Error)
	assert.EqualValues(t, 0, dogCount)
	assert.EqualValues(t, 0, imageCount)
}

func TestMarkAdoptedRequiresApproval(t *testing.T) {
	db := setupTestDB(t)
	dog := seedDog(t, db, false, false)

	_, err := MarkAdopted(db, dog.ID)
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestMarkAdoptedIsOneWay(t *testing.T) {
	db := setupTestDB(t)
	dog := seedDog(t, db, true, false)

	adopted, err := MarkAdopted(db, dog.ID)
	require.NoError(t, err)
	assert.True(t, adopted.IsAdopted)

	_, err = MarkAdopted(db, dog.ID)
	assert.ErrorIs(t, err, ErrAlreadyAdopted)
}

func TestNotificationCounts(t *testing.T) {
	db := setupTestDB(t)
	seedDog(t, db, false, false)

	user := models.User{Username: "buyer", Email: "buyer@example.com", Password: "x", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	number, err := models.NewOrderNumber(db)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Order{
		UserID:        user.ID,
		OrderNumber:   number,
		PaymentMethod: models.PaymentMethodCOD,
		Status:        models.OrderStatusPending,
	}).Error)

	counts, err := GetNotificationCounts(db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts.PendingDogs)
	assert.EqualValues(t, 1, counts.PendingOrders)
}
