package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/config"
	dogControllers "github.com/pethood-np/pethood-api/controllers/dog"
	"github.com/pethood-np/pethood-api/mailer"
	"github.com/pethood-np/pethood-api/middleware"
)

// SetupDogRoutes registers the adoption-listing endpoints under "/dogs".
func SetupDogRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, m *mailer.Mailer) {
	dogs := r.Group("/dogs")
	{
		dogs.GET("", dogControllers.ListDogs(db))

		// Listing detail honors owner/staff visibility when a token is sent.
		dogs.GET("/:slug", middleware.OptionalToken(cfg.JWTSecret), dogControllers.GetDog(db))
	}

	authed := r.Group("/dogs")
	authed.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		authed.GET("/mine", dogControllers.ListOwnDogs(db))
		authed.POST("", dogControllers.CreateDogHandler(db, m, cfg.MediaRoot))
	}
}
