package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/marketline/storefront-api/middleware"
	"github.com/marketline/storefront-api/models"
	"gorm.io/gorm"
)

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ID", "message": param + " must be numeric"})
		return 0, false
	}
	return uint(id), true
}

// GET /user/orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders/:orderID — accepts a numeric id or an order number, always
// scoped to the requesting user so other users' orders look nonexistent.
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		ref := c.Param("orderID")

		var order models.Order
		query := db.Preload("Items").Where("user_id = ?", userID)
		if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
			query = query.Where("id = ?", id)
		} else {
			query = query.Where("order_number = ?", ref)
		}
		if err := query.First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, ErrOrderNotFound)
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders — optional status / user_id / payment_status filters.
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("User").Preload("Items").Order("created_at DESC")

		if status := c.Query("status"); status != "" {
			if !models.OrderStatus(status).Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_STATUS", "message": "unknown order status: " + status})
				return
			}
			query = query.Where("status = ?", status)
		}
		if ps := c.Query("payment_status"); ps != "" {
			if !models.PaymentStatus(ps).Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_STATUS", "message": "unknown payment status: " + ps})
				return
			}
			query = query.Where("payment_status = ?", ps)
		}
		if userID := c.Query("user_id"); userID != "" {
			query = query.Where("user_id = ?", userID)
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /admin/orders/:orderID/payment-status
func UpdatePaymentStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := parseID(c, "orderID")
		if !ok {
			return
		}

		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_BODY", "message": err.Error()})
			return
		}

		newStatus := models.PaymentStatus(req.PaymentStatus)
		if !newStatus.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_STATUS", "message": "unknown payment status: " + req.PaymentStatus})
			return
		}

		result := db.Model(&models.Order{}).Where("id = ?", orderID).Update("payment_status", newStatus)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update payment status"})
			return
		}
		if result.RowsAffected == 0 {
			respondError(c, ErrOrderNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully"})
	}
}
