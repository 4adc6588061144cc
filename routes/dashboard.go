package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/config"
	dashboardControllers "github.com/pethood-np/pethood-api/controllers/dashboard"
	productControllers "github.com/pethood-np/pethood-api/controllers/product"
	"github.com/pethood-np/pethood-api/mailer"
	"github.com/pethood-np/pethood-api/middleware"
)

// SetupDashboardRoutes registers all "/dashboard/*" endpoints. Staff only.
func SetupDashboardRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, m *mailer.Mailer) {
	dash := r.Group("/dashboard")
	dash.Use(middleware.ValidateToken(cfg.JWTSecret), middleware.RequireStaff())
	{
		dash.GET("/stats", dashboardControllers.StatsHandler(db))
		dash.GET("/ws", dashboardControllers.NotificationsWSHandler(db))

		productAdmin := dash.Group("/products")
		{
			productAdmin.POST("", productControllers.CreateProduct(db, cfg.MediaRoot))
			productAdmin.PUT("/:id", productControllers.UpdateProduct(db, cfg.MediaRoot))
			productAdmin.DELETE("/:id", productControllers.DeleteProduct(db))
		}

		sizeAdmin := dash.Group("/sizes")
		{
			sizeAdmin.POST("", productControllers.CreateSize(db))
			sizeAdmin.DELETE("/:id", productControllers.DeleteSize(db))
		}

		dogAdmin := dash.Group("/dogs")
		{
			dogAdmin.GET("", dashboardControllers.ListDogsHandler(db))
			dogAdmin.POST("/:id/approve", dashboardControllers.ApproveDogHandler(db, m))
			dogAdmin.POST("/:id/reject", dashboardControllers.RejectDogHandler(db, m))
			dogAdmin.POST("/:id/adopt", dashboardControllers.MarkAdoptedHandler(db, m))
		}

		userAdmin := dash.Group("/users")
		{
			userAdmin.GET("", dashboardControllers.ListUsersHandler(db))
			userAdmin.GET("/:id", dashboardControllers.GetUserHandler(db))
		}

		orderAdmin := dash.Group("/orders")
		{
			orderAdmin.GET("", dashboardControllers.ListOrdersHandler(db))
			orderAdmin.GET("/:id", dashboardControllers.GetOrderHandler(db))
			orderAdmin.POST("/:id/status", dashboardControllers.UpdateOrderStatusHandler(db, m))
		}

		export := dash.Group("/export")
		{
			export.GET("/products.xlsx", dashboardControllers.ExportProductsToExcel(db))
			export.GET("/orders.xlsx", dashboardControllers.ExportOrdersToExcel(db))
		}
	}
}
