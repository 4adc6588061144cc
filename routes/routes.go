package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/config"
	khaltiControllers "github.com/pethood-np/pethood-api/controllers/khalti"
	"github.com/pethood-np/pethood-api/mailer"
)

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, m *mailer.Mailer, gw khaltiControllers.Gateway) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db, cfg, m)

	// Account-scoped routes (JWT-protected)
	SetupUserRoutes(r, db, cfg)

	// Shop browsing, cart and checkout
	SetupShopRoutes(r, db, cfg, m, gw)

	// Payment gateway callback
	SetupPaymentRoutes(r, db, m, gw)

	// Dog-listing marketplace
	SetupDogRoutes(r, db, cfg, m)

	// Admin dashboard (staff JWT)
	SetupDashboardRoutes(r, db, cfg, m)
}
