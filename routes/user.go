package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/config"
	userControllers "github.com/pethood-np/pethood-api/controllers/user"
	"github.com/pethood-np/pethood-api/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		userGroup.GET("/", userControllers.GetUser(db))

		addressGroup := userGroup.Group("/addresses")
		{
			addressGroup.GET("", userControllers.ListAddresses(db))
			addressGroup.POST("", userControllers.CreateAddress(db))
			addressGroup.PUT("/:id", userControllers.UpdateAddress(db))
			addressGroup.POST("/:id/default", userControllers.SetDefaultAddress(db))
			addressGroup.DELETE("/:id", userControllers.DeleteAddress(db))
		}
	}
}
