package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketline/storefront-api/models"
	"gorm.io/gorm"
)

type statusCount struct {
	Status models.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
}

type topProduct struct {
	ProductID    uint    `json:"product_id"`
	ProductTitle string  `json:"product_title"`
	UnitsSold    int64   `json:"units_sold"`
	Revenue      float64 `json:"revenue"`
}

// GetDashboard aggregates the storefront numbers an operator checks first:
// revenue, order counts by status, best sellers and products running low.
func GetDashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var totalRevenue float64
		if err := db.Model(&models.Order{}).
			Where("status NOT IN ?", []models.OrderStatus{models.OrderStatusCancelled, models.OrderStatusRefunded}).
			Select("COALESCE(SUM(total), 0)").
			Scan(&totalRevenue).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute revenue"})
			return
		}

		var byStatus []statusCount
		if err := db.Model(&models.Order{}).
			Select("status, COUNT(*) as count").
			Group("status").
			Scan(&byStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
			return
		}

		var topProducts []topProduct
		if err := db.Model(&models.OrderItem{}).
			Select("product_id, product_title, SUM(quantity) as units_sold, SUM(unit_price * quantity) as revenue").
			Group("product_id, product_title").
			Order("units_sold DESC").
			Limit(10).
			Scan(&topProducts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute top products"})
			return
		}

		var lowStock []models.Product
		if err := db.Where("is_active = ? AND stock_quantity <= ?", true, 5).
			Order("stock_quantity asc").
			Limit(20).
			Find(&lowStock).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch low-stock products"})
			return
		}

		var userCount int64
		if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"total_revenue":    totalRevenue,
			"orders_by_status": byStatus,
			"top_products":     topProducts,
			"low_stock":        lowStock,
			"user_count":       userCount,
		})
	}
}
