package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	checkoutControllers "github.com/pethood-np/pethood-api/controllers/checkout"
	khaltiControllers "github.com/pethood-np/pethood-api/controllers/khalti"
	"github.com/pethood-np/pethood-api/mailer"
)

// SetupPaymentRoutes registers the gateway redirect-return callback. The
// callback is unauthenticated: the payment index is verified server-side
// against the gateway before anything is created.
func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, m *mailer.Mailer, gw khaltiControllers.Gateway) {
	payment := r.Group("/payment")
	{
		payment.GET("/khalti/callback", checkoutControllers.CallbackHandler(db, m, gw))
	}
}
