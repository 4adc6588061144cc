package cartControllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pethood-np/pethood-api/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Size{},
		&models.Cart{}, &models.CartItem{},
	))
	return db
}

func seedUserAndProduct(t *testing.T, db *gorm.DB, price string) (*models.User, *models.Product) {
	t.Helper()
	user := models.User{Username: "shopper", Email: "shopper@example.com", Password: "x", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	product := models.Product{
		Name:     "Puppy Kibble",
		Slug:     "puppy-kibble",
		Category: models.CategoryFood,
		Price:    decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(&product).Error)
	return &user, &product
}

func TestAddItemCreatesLineWithQuantityOne(t *testing.T) {
	db := setupTestDB(t)
	user, product := seedUserAndProduct(t, db, "100")

	item, err := AddItem(db, user.ID, product.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, product.ID, item.ProductID)
}

func TestAddItemRejectsDuplicateLine(t *testing.T) {
	db := setupTestDB(t)
	user, product := seedUserAndProduct(t, db, "100")

	_, err := AddItem(db, user.ID, product.ID, "M")
	require.NoError(t, err)

	_, err = AddItem(db, user.ID, product.ID, "M")
	assert.ErrorIs(t, err, ErrAlreadyInCart)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddItemAllowsSameProductDifferentSize(t *testing.T) {
	db := setupTestDB(t)
	user, product := seedUserAndProduct(t, db, "100")

	_, err := AddItem(db, user.ID, product.ID, "M")
	require.NoError(t, err)
	_, err = AddItem(db, user.ID, product.ID, "L")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedUserAndProduct(t, db, "100")

	_, err := AddItem(db, user.ID, 9999, "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartTotalUsesLivePrices(t *testing.T) {
	db := setupTestDB(t)
	user, product := seedUserAndProduct(t, db, "100")

	item, err := AddItem(db, user.ID, product.ID, "")
	require.NoError(t, err)

	item.Quantity = 3
	require.NoError(t, db.Save(item).Error)

	var items []models.CartItem
	require.NoError(t, db.Preload("Product").Find(&items).Error)

	total := models.CartTotal(items)
	assert.True(t, total.Equal(decimal.RequireFromString("300")), "got %s", total)
}

func updateItemRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/shop/cart/items/:id", func(c *gin.Context) {
		c.Set("user_id", userID)
	}, UpdateItemHandler(db))
	return r
}

func postUpdate(r *gin.Engine, itemID uint, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/shop/cart/items/%d", itemID), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateItemZeroQuantityDeletesLine(t *testing.T) {
	db := setupTestDB(t)
	user, product := seedUserAndProduct(t, db, "100")

	item, err := AddItem(db, user.ID, product.ID, "")
	require.NoError(t, err)

	r := updateItemRouter(db, user.ID)
	w := postUpdate(r, item.ID, `{"quantity": 0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUpdateItemSetsQuantity(t *testing.T) {
	db := setupTestDB(t)
	user, product := seedUserAndProduct(t, db, "100")

	item, err := AddItem(db, user.ID, product.ID, "")
	require.NoError(t, err)

	r := updateItemRouter(db, user.ID)
	w := postUpdate(r, item.ID, `{"quantity": 4}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded models.CartItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Equal(t, 4, reloaded.Quantity)
}

func TestUpdateItemMissingQuantityRejected(t *testing.T) {
	db := setupTestDB(t)
	user, product := seedUserAndProduct(t, db, "100")

	item, err := AddItem(db, user.ID, product.ID, "")
	require.NoError(t, err)

	r := updateItemRouter(db, user.ID)
	w := postUpdate(r, item.ID, `{"size": "M"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrCreateCartIsLazyAndStable(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedUserAndProduct(t, db, "100")

	first, err := models.GetOrCreateCart(db, user.ID)
	require.NoError(t, err)
	second, err := models.GetOrCreateCart(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
