package orderControllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketline/storefront-api/middleware"
	"github.com/marketline/storefront-api/models"
	"gorm.io/gorm"
)

type UpdateStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
	Carrier        string `json:"carrier"`
	Notes          string `json:"notes"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type UpdateFulfillmentRequest struct {
	FulfilledQuantity *int   `json:"fulfilled_quantity" binding:"required"`
	Status            string `json:"status"`
}

// UpdateOrderStatus applies one transition of the status state machine.
// Forward transitions never touch inventory; a transition into cancelled
// restores it, same as CancelOrder.
func UpdateOrderStatus(db *gorm.DB, orderID uint, target models.OrderStatus, trackingNumber, carrier, notes string) (*models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if !order.Status.CanTransitionTo(target) {
			return &InvalidTransitionError{From: order.Status, To: target}
		}

		now := time.Now()
		switch target {
		case models.OrderStatusConfirmed:
			order.ConfirmedAt = &now
		case models.OrderStatusShipped:
			order.ShippedAt = &now
			if trackingNumber != "" {
				order.TrackingNumber = trackingNumber
			}
			if carrier != "" {
				order.Carrier = carrier
			}
		case models.OrderStatusDelivered:
			order.DeliveredAt = &now
		case models.OrderStatusRefunded:
			order.PaymentStatus = models.PaymentStatusRefunded
		case models.OrderStatusCancelled:
			order.CancelledAt = &now
			if err := restoreStock(tx, order.Items); err != nil {
				return err
			}
		}

		order.Status = target
		if notes != "" {
			order.AdminNotes = appendNote(order.AdminNotes, notes)
		}

		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}

	broadcastOrderEvent("order_status_changed", order)
	return &order, nil
}

// CancelOrder is the customer-facing cancellation path. It only succeeds
// while the order is still pending or confirmed, and puts every line's
// quantity back into stock.
func CancelOrder(db *gorm.DB, userID, orderID uint, reason string) (*models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
			return ErrNotCancellable
		}

		if err := restoreStock(tx, order.Items); err != nil {
			return err
		}

		now := time.Now()
		order.Status = models.OrderStatusCancelled
		order.CancelledAt = &now
		if reason != "" {
			order.AdminNotes = appendNote(order.AdminNotes, "Cancelled by customer: "+reason)
		}

		if err := tx.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).
			Update("fulfillment_status", models.FulfillmentCancelled).Error; err != nil {
			return err
		}
		// Keep the preloaded slice in step with the bulk update so the
		// returned order reflects what was persisted.
		for i := range order.Items {
			order.Items[i].FulfillmentStatus = models.FulfillmentCancelled
		}

		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}

	broadcastOrderEvent("order_status_changed", order)
	return &order, nil
}

// restoreStock puts cancelled quantities back and reopens availability. A
// plain restore, not a reconciliation against other outstanding orders.
func restoreStock(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
			Updates(map[string]interface{}{
				"stock_quantity": gorm.Expr("stock_quantity + ?", item.Quantity),
				"in_stock":       true,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}

// UpdateItemFulfillment tracks partial shipment per line, independent of the
// order's own status. Fulfilled quantity can never exceed the ordered one.
func UpdateItemFulfillment(db *gorm.DB, orderID, itemID uint, fulfilledQty int, status models.FulfillmentStatus) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := db.First(&item, "id = ? AND order_id = ?", itemID, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if fulfilledQty < 0 || fulfilledQty > item.Quantity {
		return nil, fmt.Errorf("fulfilled quantity %d out of range [0, %d]", fulfilledQty, item.Quantity)
	}

	item.FulfilledQuantity = fulfilledQty
	if status != "" {
		item.FulfillmentStatus = status
	} else {
		switch {
		case fulfilledQty == 0:
			item.FulfillmentStatus = models.FulfillmentPending
		case fulfilledQty < item.Quantity:
			item.FulfillmentStatus = models.FulfillmentPartial
		default:
			item.FulfillmentStatus = models.FulfillmentFulfilled
		}
	}

	if err := db.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := parseID(c, "orderID")
		if !ok {
			return
		}

		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_BODY", "message": err.Error()})
			return
		}

		target := models.OrderStatus(req.Status)
		if !target.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_STATUS", "message": "unknown order status: " + req.Status})
			return
		}

		order, err := UpdateOrderStatus(db, orderID, target, req.TrackingNumber, req.Carrier, req.Notes)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// POST /user/orders/:orderID/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		orderID, ok := parseID(c, "orderID")
		if !ok {
			return
		}

		var req CancelOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_BODY", "message": err.Error()})
			return
		}

		order, err := CancelOrder(db, userID, orderID, req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// PUT /admin/orders/:orderID/items/:itemID/fulfillment
func UpdateItemFulfillmentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := parseID(c, "orderID")
		if !ok {
			return
		}
		itemID, ok := parseID(c, "itemID")
		if !ok {
			return
		}

		var req UpdateFulfillmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_BODY", "message": err.Error()})
			return
		}

		item, err := UpdateItemFulfillment(db, orderID, itemID, *req.FulfilledQuantity, models.FulfillmentStatus(req.Status))
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_FULFILLMENT", "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, item)
	}
}
