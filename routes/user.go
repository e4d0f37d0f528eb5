package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/marketline/storefront-api/controllers/cart"
	orderControllers "github.com/marketline/storefront-api/controllers/order"
	userControllers "github.com/marketline/storefront-api/controllers/user"
	"github.com/marketline/storefront-api/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── Profile ────────────────
		userGroup.GET("/", userControllers.GetUser(db))
		userGroup.PUT("/", userControllers.UpdateUser(db))

		// ──────────────── Address Book ────────────────
		addressGroup := userGroup.Group("/addresses")
		{
			addressGroup.GET("/", userControllers.ListAddresses(db))
			addressGroup.POST("/", userControllers.CreateAddress(db))
			addressGroup.PUT("/:id", userControllers.UpdateAddress(db))
			addressGroup.DELETE("/:id", userControllers.DeleteAddress(db))
		}

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(db))
			cartGroup.POST("/", cartControllers.AddToCart(db))
			cartGroup.POST("/validate", cartControllers.ValidateCartHandler(db))
			cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(db))
			cartGroup.DELETE("/", cartControllers.ClearUserCart(db))
		}

		// ──────────────── Checkout & Orders ────────────────
		userGroup.POST("/checkout", orderControllers.CheckoutHandler(db))
		userGroup.GET("/orders", orderControllers.GetUserOrdersHandler(db))
		userGroup.GET("/orders/:orderID", orderControllers.GetOrderByIDHandler(db))
		userGroup.POST("/orders/:orderID/cancel", orderControllers.CancelOrderHandler(db))
	}
}
