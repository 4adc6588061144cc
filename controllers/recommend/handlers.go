package recommend

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/middleware"
)

// GET /shop/trending
func TrendingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := intQuery(c, "limit", 8)
		days := intQuery(c, "days", 30)

		products, err := Trending(db, days, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trending products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /shop/recommendations returns personalized picks for the current user.
func PersonalizedHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		limit := intQuery(c, "limit", 6)

		products, err := Personalized(db, userID, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recommendations"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
