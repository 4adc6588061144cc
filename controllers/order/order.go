package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/middleware"
	"github.com/pethood-np/pethood-api/models"
)

// ErrNotCancellable carries the current status so handlers can name it in
// the rejection message.
type ErrNotCancellable struct {
	Status models.OrderStatus
}

func (e ErrNotCancellable) Error() string {
	return fmt.Sprintf("order cannot be cancelled while %s", e.Status)
}

// CancelOrder flips a pending order to cancelled. Any other status rejects
// the transition.
func CancelOrder(db *gorm.DB, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, ErrNotCancellable{Status: order.Status}
	}
	if err := db.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusCancelled
	return &order, nil
}

// GET /shop/orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Preload("Items.Product").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// byReference scopes a query to the owner and matches either the numeric id
// or the order number. The two are queried separately so the reference never
// has to cast to the integer id column.
func byReference(db *gorm.DB, userID uint, ref string) *gorm.DB {
	if _, err := strconv.Atoi(ref); err == nil {
		return db.Where("user_id = ? AND id = ?", userID, ref)
	}
	return db.Where("user_id = ? AND order_number = ?", userID, ref)
}

// GET /shop/orders/:id accepts a numeric id or an order number, owner only.
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var order models.Order
		if err := byReference(db, userID, c.Param("id")).
			Preload("Items").
			Preload("Items.Product").
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// POST /shop/orders/:id/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var order models.Order
		if err := byReference(db, userID, c.Param("id")).First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		cancelled, err := CancelOrder(db, userID, order.ID)
		var notCancellable ErrNotCancellable
		if errors.As(err, &notCancellable) {
			c.JSON(http.StatusConflict, gin.H{
				"error": fmt.Sprintf("Order cannot be cancelled because it is already %s", notCancellable.Status),
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled", "order": cancelled})
	}
}
