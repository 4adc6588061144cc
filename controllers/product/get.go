package productControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/controllers/recommend"
	"github.com/pethood-np/pethood-api/models"
)

// GET /shop/products with optional filters: category (repeatable), size, sort.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Product{}).Preload("Sizes")

		categories := c.QueryArray("category")
		if len(categories) > 0 && !contains(categories, "all") {
			query = query.Where("category IN ?", categories)
		}

		if size := c.Query("size"); size != "" {
			query = query.
				Joins("JOIN product_sizes ON product_sizes.product_id = products.id").
				Joins("JOIN sizes ON sizes.id = product_sizes.size_id").
				Where("sizes.name = ?", size)
		}

		switch c.Query("sort") {
		case "price_low":
			query = query.Order("price ASC")
		case "price_high":
			query = query.Order("price DESC")
		default:
			query = query.Order("created_at DESC")
		}

		var products []models.Product
		if err := query.Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /shop/products/:id accepts a numeric id or a slug, with recommendations.
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		query := db.Preload("Sizes")
		// slug lookups would not cast to the integer id column
		if _, err := strconv.Atoi(id); err == nil {
			query = query.Where("id = ?", id)
		} else {
			query = query.Where("slug = ?", id)
		}

		var product models.Product
		if err := query.First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}

		similar, err := recommend.Similar(db, &product, 4)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recommendations"})
			return
		}
		boughtTogether, err := recommend.FrequentlyBoughtTogether(db, &product, 3)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recommendations"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"product":                    product,
			"similar":                    similar,
			"frequently_bought_together": boughtTogether,
		})
	}
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
