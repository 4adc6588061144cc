package userControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/middleware"
	"github.com/pethood-np/pethood-api/models"
)

type AddressInput struct {
	Label       string `json:"label" binding:"required"`
	AddressLine string `json:"address_line" binding:"required"`
	City        string `json:"city" binding:"required"`
	PostalCode  string `json:"postal_code"`
	Phone       string `json:"phone" binding:"required"`
	IsDefault   bool   `json:"is_default"`
}

// GET /user/addresses
func ListAddresses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var addresses []models.Address
		if err := db.Where("user_id = ?", userID).
			Order("is_default DESC, created_at DESC").
			Find(&addresses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch addresses"})
			return
		}
		c.JSON(http.StatusOK, addresses)
	}
}

// POST /user/addresses
func CreateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		addr := models.Address{
			UserID:      userID,
			Label:       input.Label,
			AddressLine: input.AddressLine,
			City:        input.City,
			PostalCode:  input.PostalCode,
			Phone:       input.Phone,
			IsDefault:   input.IsDefault,
		}
		if err := models.CreateAddress(db, &addr); err != nil {
			if errors.Is(err, models.ErrAddressLimit) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum 3 addresses allowed per user"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create address"})
			return
		}
		c.JSON(http.StatusCreated, addr)
	}
}

// PUT /user/addresses/:id
func UpdateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var addr models.Address
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).
			First(&addr).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}

		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		addr.Label = input.Label
		addr.AddressLine = input.AddressLine
		addr.City = input.City
		addr.PostalCode = input.PostalCode
		addr.Phone = input.Phone
		if err := db.Save(&addr).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update address"})
			return
		}

		if input.IsDefault && !addr.IsDefault {
			if err := models.SetDefaultAddress(db, userID, addr.ID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set default address"})
				return
			}
			addr.IsDefault = true
		}
		c.JSON(http.StatusOK, addr)
	}
}

// POST /user/addresses/:id/default
func SetDefaultAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var addr models.Address
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).
			First(&addr).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}

		if err := models.SetDefaultAddress(db, userID, addr.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set default address"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Default address updated"})
	}
}

// DELETE /user/addresses/:id
func DeleteAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var addr models.Address
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).
			First(&addr).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}

		if err := models.DeleteAddress(db, userID, addr.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete address"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
	}
}
