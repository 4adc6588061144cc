package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/middleware"
	"github.com/pethood-np/pethood-api/models"
)

// GET /user/
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var user models.User
		if err := db.Preload("Addresses").First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var orderCount, dogCount int64
		db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&orderCount)
		db.Model(&models.Dog{}).Where("lister_id = ?", userID).Count(&dogCount)

		c.JSON(http.StatusOK, gin.H{
			"user":          user,
			"order_count":   orderCount,
			"listing_count": dogCount,
		})
	}
}
