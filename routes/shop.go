package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/config"
	cartControllers "github.com/pethood-np/pethood-api/controllers/cart"
	checkoutControllers "github.com/pethood-np/pethood-api/controllers/checkout"
	khaltiControllers "github.com/pethood-np/pethood-api/controllers/khalti"
	orderControllers "github.com/pethood-np/pethood-api/controllers/order"
	productControllers "github.com/pethood-np/pethood-api/controllers/product"
	"github.com/pethood-np/pethood-api/controllers/recommend"
	"github.com/pethood-np/pethood-api/mailer"
	"github.com/pethood-np/pethood-api/middleware"
)

// SetupShopRoutes registers catalog browsing, cart, checkout and order
// endpoints under "/shop".
func SetupShopRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, m *mailer.Mailer, gw khaltiControllers.Gateway) {
	shop := r.Group("/shop")
	{
		// Public catalog
		shop.GET("/products", productControllers.GetProducts(db))
		shop.GET("/products/:id", productControllers.GetProductByID(db))
		shop.GET("/sizes", productControllers.GetSizes(db))
		shop.GET("/trending", recommend.TrendingHandler(db))

		// Anonymous users fall back to trending inside the scorer.
		shop.GET("/recommendations", middleware.OptionalToken(cfg.JWTSecret), recommend.PersonalizedHandler(db))
	}

	authed := r.Group("/shop")
	authed.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		cartGroup := authed.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCartHandler(db))
			cartGroup.POST("/items", cartControllers.AddItemHandler(db))
			cartGroup.POST("/items/:id", cartControllers.UpdateItemHandler(db))
			cartGroup.POST("/items/:id/buy-now", cartControllers.BuyNowHandler(db))
			cartGroup.DELETE("/items/:id", cartControllers.RemoveItemHandler(db))
		}

		authed.POST("/checkout", checkoutControllers.CheckoutHandler(db, m, gw, cfg))

		orderGroup := authed.Group("/orders")
		{
			orderGroup.GET("", orderControllers.GetUserOrdersHandler(db))
			orderGroup.GET("/:id", orderControllers.GetOrderHandler(db))
			orderGroup.POST("/:id/cancel", orderControllers.CancelOrderHandler(db))
		}
	}
}
