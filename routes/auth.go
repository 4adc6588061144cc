package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/auth"
	"github.com/pethood-np/pethood-api/config"
	"github.com/pethood-np/pethood-api/mailer"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, m *mailer.Mailer) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", auth.Signup(db, m))
		authGroup.GET("/verify", auth.Verify(db))
		authGroup.POST("/login", auth.Login(db, cfg.JWTSecret))
	}
}
