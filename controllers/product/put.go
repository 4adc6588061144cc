package productControllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/media"
	"github.com/pethood-np/pethood-api/models"
)

// UpdateProduct edits product fields; the slug stays stable across renames.
// PUT /dashboard/products/:id (multipart)
func UpdateProduct(db *gorm.DB, mediaRoot string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		updates := map[string]interface{}{}
		if name := strings.TrimSpace(c.PostForm("name")); name != "" {
			updates["name"] = name
		}
		if category := c.PostForm("category"); category != "" {
			if !models.ValidCategory(category) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
				return
			}
			updates["category"] = category
		}
		if priceStr := c.PostForm("price"); priceStr != "" {
			price, err := decimal.NewFromString(priceStr)
			if err != nil || price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
				return
			}
			updates["price"] = price
		}
		if description := c.PostForm("description"); description != "" {
			updates["description"] = description
		}

		if file, err := c.FormFile("image"); err == nil {
			imagePath, err := media.SaveUpload(c, file, mediaRoot, "products")
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			updates["image"] = imagePath
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
				return
			}
		}

		if raw, ok := c.GetPostForm("size_ids"); ok {
			sizes, err := parseSizeIDs(db, raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := db.Model(&product).Association("Sizes").Replace(sizes); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sizes"})
				return
			}
		}

		if err := db.Preload("Sizes").First(&product, product.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
