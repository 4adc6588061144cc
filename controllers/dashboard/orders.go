package dashboardControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/mailer"
	"github.com/pethood-np/pethood-api/models"
)

type UpdateOrderStatusInput struct {
	Status    string `json:"status" binding:"required"`
	SendEmail bool   `json:"send_email"`
}

// GET /dashboard/orders?status=
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Items").Preload("Items.Product")
		if status := c.Query("status"); status != "" {
			if !models.ValidOrderStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
				return
			}
			query = query.Where("status = ?", status)
		}

		var orders []models.Order
		if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// orderByRef matches either the numeric id or the order number, queried
// separately so a reference like "ORD-..." never hits the integer id column.
func orderByRef(db *gorm.DB, ref string) *gorm.DB {
	if _, err := strconv.Atoi(ref); err == nil {
		return db.Where("id = ?", ref)
	}
	return db.Where("order_number = ?", ref)
}

// GET /dashboard/orders/:id
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order models.Order
		if err := orderByRef(db, c.Param("id")).
			Preload("Items").Preload("Items.Product").
			First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// POST /dashboard/orders/:id/status
func UpdateOrderStatusHandler(db *gorm.DB, m *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateOrderStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if !models.ValidOrderStatus(input.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
			return
		}

		var order models.Order
		if err := orderByRef(db, c.Param("id")).First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		oldStatus := order.Status
		newStatus := models.OrderStatus(input.Status)
		if err := db.Model(&order).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			return
		}
		order.Status = newStatus

		message := "Order status updated"
		if input.SendEmail {
			if err := m.SendOrderStatusUpdate(&order, oldStatus, newStatus); err != nil {
				logrus.WithError(err).WithField("order", order.OrderNumber).
					Warn("status update email failed")
				message = "Status updated but email failed"
			} else {
				message = "Order status updated and email sent"
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": message, "order": order})
	}
}
