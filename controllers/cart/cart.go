package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/middleware"
	"github.com/pethood-np/pethood-api/models"
)

// ErrAlreadyInCart is returned when the same (product, size) line already
// exists. Duplicates are rejected rather than incremented; the client is
// expected to use the quantity update endpoint instead.
var ErrAlreadyInCart = errors.New("item is already in the cart")

type AddItemInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
}

// Quantity is a pointer so zero (delete the line) survives binding.
type UpdateItemInput struct {
	Quantity *int    `json:"quantity" binding:"required"`
	Size     *string `json:"size"`
}

// AddItem appends a new line for (product, size) with quantity 1, or fails
// with ErrAlreadyInCart when that line already exists.
func AddItem(db *gorm.DB, userID, productID uint, size string) (*models.CartItem, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		return nil, err
	}

	cart, err := models.GetOrCreateCart(db, userID)
	if err != nil {
		return nil, err
	}

	var existing models.CartItem
	err = db.Where("cart_id = ? AND product_id = ? AND size = ?", cart.ID, productID, size).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyInCart
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  1,
		Size:      size,
		AddedAt:   time.Now(),
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, err
	}
	item.Product = product
	return &item, nil
}

// POST /shop/cart/items
func AddItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := AddItem(db, userID, input.ProductID, input.Size)
		if errors.Is(err, ErrAlreadyInCart) {
			c.JSON(http.StatusConflict, gin.H{"error": "Item is already in your cart"})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			return
		}

		var count int64
		if err := db.Model(&models.CartItem{}).Where("cart_id = ?", item.CartID).
			Count(&count).Error; err != nil {
			logrus.WithError(err).Warn("failed to count cart items")
		}

		c.JSON(http.StatusCreated, gin.H{
			"item":         item,
			"cart_count":   count,
			"product_name": item.Product.Name,
		})
	}
}

// POST /shop/cart/items/:id. Qty <= 0 deletes the line, otherwise sets it;
// size is updated when supplied.
func UpdateItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		itemID := c.Param("id")

		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := ownedItem(db, userID, itemID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		if *input.Quantity <= 0 {
			if err := db.Delete(item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cart item"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
			return
		}

		item.Quantity = *input.Quantity
		if input.Size != nil {
			item.Size = *input.Size
		}
		if err := db.Save(item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /shop/cart/items/:id. Idempotent.
func RemoveItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		itemID := c.Param("id")

		cart, err := models.GetOrCreateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		if err := db.Where("cart_id = ? AND id = ?", cart.ID, itemID).
			Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// GET /shop/cart. Viewing the full cart clears the buy-now pointer.
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		cart, err := models.GetOrCreateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		if cart.BuyNowItemID != nil {
			if err := db.Model(cart).Update("buy_now_item_id", nil).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
				return
			}
		}

		var items []models.CartItem
		if err := db.Preload("Product").Where("cart_id = ?", cart.ID).
			Order("added_at ASC").Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart items"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items":      items,
			"total":      models.CartTotal(items),
			"cart_count": len(items),
		})
	}
}

// POST /shop/cart/items/:id/buy-now marks a single line for checkout.
func BuyNowHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		itemID := c.Param("id")

		item, err := ownedItem(db, userID, itemID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		if err := db.Model(&models.Cart{}).Where("id = ?", item.CartID).
			Update("buy_now_item_id", item.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item selected for checkout", "item": item})
	}
}

func ownedItem(db *gorm.DB, userID uint, itemID string) (*models.CartItem, error) {
	cart, err := models.GetOrCreateCart(db, userID)
	if err != nil {
		return nil, err
	}
	var item models.CartItem
	if err := db.Preload("Product").
		Where("cart_id = ? AND id = ?", cart.ID, itemID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
