package productControllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/media"
	"github.com/pethood-np/pethood-api/models"
)

// CreateProduct adds a product with sizes and an image upload. Staff only.
// POST /dashboard/products (multipart)
func CreateProduct(db *gorm.DB, mediaRoot string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.PostForm("name"))
		category := c.PostForm("category")
		priceStr := c.PostForm("price")
		if name == "" || category == "" || priceStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, category, and price are required"})
			return
		}
		if !models.ValidCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}

		sizes, err := parseSizeIDs(db, c.PostForm("size_ids"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image is required"})
			return
		}
		imagePath, err := media.SaveUpload(c, file, mediaRoot, "products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		slug, err := models.UniqueSlug(db, &models.Product{}, name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to derive slug"})
			return
		}

		product := models.Product{
			Name:        name,
			Slug:        slug,
			Category:    models.ProductCategory(category),
			Price:       price,
			Description: c.PostForm("description"),
			Image:       imagePath,
			Sizes:       sizes,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// parseSizeIDs resolves a comma-separated id list against the size catalog.
func parseSizeIDs(db *gorm.DB, raw string) ([]models.Size, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []uint
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return nil, gorm.ErrInvalidData
		}
		ids = append(ids, uint(id))
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var sizes []models.Size
	if err := db.Where("id IN ?", ids).Find(&sizes).Error; err != nil {
		return nil, err
	}
	return sizes, nil
}
