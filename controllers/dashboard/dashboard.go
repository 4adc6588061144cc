package dashboardControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/models"
)

// NotificationCounts feeds the dashboard sidebar and the websocket stream.
type NotificationCounts struct {
	PendingDogs   int64 `json:"pending_dogs"`
	PendingOrders int64 `json:"pending_orders"`
}

func GetNotificationCounts(db *gorm.DB) (NotificationCounts, error) {
	var counts NotificationCounts
	if err := db.Model(&models.Dog{}).Where("is_approved = ?", false).
		Count(&counts.PendingDogs).Error; err != nil {
		return counts, err
	}
	if err := db.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).
		Count(&counts.PendingOrders).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

// GET /dashboard/stats
func StatsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var totalProducts, totalOrders, pendingOrders, totalUsers, totalDogs, pendingDogs int64
		db.Model(&models.Product{}).Count(&totalProducts)
		db.Model(&models.Order{}).Count(&totalOrders)
		db.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&pendingOrders)
		db.Model(&models.User{}).Count(&totalUsers)
		db.Model(&models.Dog{}).Count(&totalDogs)
		db.Model(&models.Dog{}).Where("is_approved = ?", false).Count(&pendingDogs)

		var revenue decimal.NullDecimal
		if err := db.Model(&models.Order{}).
			Where("status <> ?", models.OrderStatusCancelled).
			Select("SUM(total_amount)").
			Scan(&revenue).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute revenue"})
			return
		}
		totalRevenue := decimal.Zero
		if revenue.Valid {
			totalRevenue = revenue.Decimal
		}

		var recentOrders []models.Order
		if err := db.Preload("Items").Order("created_at DESC").Limit(5).
			Find(&recentOrders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent orders"})
			return
		}

		counts, err := GetNotificationCounts(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notification counts"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"total_products": totalProducts,
			"total_orders":   totalOrders,
			"pending_orders": pendingOrders,
			"total_users":    totalUsers,
			"total_dogs":     totalDogs,
			"pending_dogs":   pendingDogs,
			"total_revenue":  totalRevenue,
			"recent_orders":  recentOrders,
			"notifications":  counts,
		})
	}
}

// GET /dashboard/users?q=
func ListUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.User{})
		if q := c.Query("q"); q != "" {
			like := "%" + q + "%"
			query = query.Where("username LIKE ? OR email LIKE ?", like, like)
		}

		var users []models.User
		if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}

		type userRow struct {
			models.User
			OrderCount int64 `json:"order_count"`
			DogCount   int64 `json:"dog_count"`
		}
		rows := make([]userRow, 0, len(users))
		for _, u := range users {
			row := userRow{User: u}
			db.Model(&models.Order{}).Where("user_id = ?", u.ID).Count(&row.OrderCount)
			db.Model(&models.Dog{}).Where("lister_id = ?", u.ID).Count(&row.DogCount)
			rows = append(rows, row)
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GET /dashboard/users/:id
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.Preload("Addresses").First(&user, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var orders []models.Order
		db.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&orders)

		var dogs []models.Dog
		db.Where("lister_id = ?", user.ID).Order("created_at DESC").Find(&dogs)

		totalSpent := decimal.Zero
		for _, o := range orders {
			if o.Status != models.OrderStatusCancelled {
				totalSpent = totalSpent.Add(o.TotalAmount)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"user":        user,
			"orders":      orders,
			"dogs":        dogs,
			"total_spent": totalSpent,
		})
	}
}
