package productControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/models"
)

type SizeInput struct {
	Name string `json:"name" binding:"required,max=10"`
}

// GET /shop/sizes
func GetSizes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sizes []models.Size
		if err := db.Order("id ASC").Find(&sizes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sizes"})
			return
		}
		c.JSON(http.StatusOK, sizes)
	}
}

// POST /dashboard/sizes
func CreateSize(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SizeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		size := models.Size{Name: input.Name}
		if err := db.Create(&size).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Size already exists"})
			return
		}
		c.JSON(http.StatusCreated, size)
	}
}

// DELETE /dashboard/sizes/:id
func DeleteSize(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Delete(&models.Size{}, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete size"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Size deleted"})
	}
}
