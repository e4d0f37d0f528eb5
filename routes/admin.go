package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/marketline/storefront-api/controllers/admin"
	cartControllers "github.com/marketline/storefront-api/controllers/cart"
	orderControllers "github.com/marketline/storefront-api/controllers/order"
	productcontroller "github.com/marketline/storefront-api/controllers/product"
	userControllers "github.com/marketline/storefront-api/controllers/user"
	"github.com/marketline/storefront-api/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires a valid JWT
// carrying the admin role.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken, middleware.RequireRole("admin"))
	{
		// ─────────── Dashboard & Users ───────────
		adminGroup.GET("/dashboard", adminController.GetDashboard(db))
		adminGroup.GET("/users", userControllers.GetAllUsers(db))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(db))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(db))
			productAdmin.GET("", productcontroller.GetProducts(db))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(db))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(db))
		}

		// ─────────── Category Management ───────────
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productcontroller.CreateCategory(db))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(db))
			categoryAdmin.GET("", productcontroller.GetAllCategories(db))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(db))
		}

		// ─────────── Order Management ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(db))
			orderAdmin.GET("/export-excel", orderControllers.ExportOrdersToExcel(db))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))
			orderAdmin.PUT("/:orderID/payment-status", orderControllers.UpdatePaymentStatusHandler(db))
			orderAdmin.PUT("/:orderID/items/:itemID/fulfillment", orderControllers.UpdateItemFulfillmentHandler(db))
		}

		// ─────────── Support ───────────
		adminGroup.GET("/user-cart/:user_id", cartControllers.GetAdminUserCart(db))
	}
}
