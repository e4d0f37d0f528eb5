package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/marketline/storefront-api/controllers/order"
	"gorm.io/gorm"
)

// SetupOrderRoutes registers the order event stream.
func SetupOrderRoutes(r *gin.Engine, _ *gorm.DB) {
	orders := r.Group("/orders")
	{
		// websocket endpoint for real-time order updates
		orders.GET("/ws", orderControllers.OrderWebSocketHandler)
	}
}
