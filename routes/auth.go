package routes

import (
	"github.com/gin-gonic/gin"
	authControllers "github.com/marketline/storefront-api/controllers/auth"
	productcontroller "github.com/marketline/storefront-api/controllers/product"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers the public authentication endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authControllers.Register(db))
		authGroup.POST("/login", authControllers.Login(db))
		authGroup.POST("/forgot-password", authControllers.ForgotPassword(db))
		authGroup.POST("/reset-password", authControllers.ResetPassword(db))
	}
}

// SetupCatalogRoutes registers public product browsing.
func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/products", productcontroller.GetProducts(db))
	r.GET("/products/:id", productcontroller.GetProductByID(db))
	r.GET("/categories", productcontroller.GetAllCategories(db))
	r.GET("/categories/:id/products", productcontroller.GetCategoryWithProducts(db))
}
