package orderControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketline/storefront-api/middleware"
	"github.com/marketline/storefront-api/models"
	"gorm.io/gorm"
)

type CheckoutRequest struct {
	ShippingAddressID *uint         `json:"shipping_address_id"`
	ShippingAddress   *AddressInput `json:"shipping_address"`
	BillingAddressID  *uint         `json:"billing_address_id"`
	BillingAddress    *AddressInput `json:"billing_address"`
	PaymentMethod     string        `json:"payment_method"`
	CustomerNotes     string        `json:"customer_notes"`
}

const maxOrderNumberAttempts = 5

// CreateOrder converts the user's cart into an order inside one transaction:
// re-validate every line against live product state, resolve addresses,
// compute totals, persist the order with frozen line snapshots, decrement
// stock, and clear the cart. Any failure rolls the whole thing back.
func CreateOrder(db *gorm.DB, userID uint, req CheckoutRequest) (*models.Order, error) {
	var orderID uint

	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ? AND is_active = ?", userID, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInactiveUser
			}
			return err
		}

		var cart models.Cart
		if err := tx.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		// Re-validate every line against live product state before any write.
		products := make(map[uint]models.Product, len(cart.Items))
		var problems []LineProblem
		for _, item := range cart.Items {
			var product models.Product
			err := tx.First(&product, "id = ?", item.ProductID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					problems = append(problems, LineProblem{item.ProductID, "product no longer exists"})
					continue
				}
				return err
			}
			switch {
			case !product.IsActive:
				problems = append(problems, LineProblem{item.ProductID, "product is no longer available"})
			case !product.InStock || product.StockQuantity <= 0:
				problems = append(problems, LineProblem{item.ProductID, "product is out of stock"})
			case product.StockQuantity < item.Quantity:
				problems = append(problems, LineProblem{
					item.ProductID,
					fmt.Sprintf("insufficient stock: %d available, %d requested", product.StockQuantity, item.Quantity),
				})
			default:
				products[item.ProductID] = product
			}
		}
		if len(problems) > 0 {
			return &CartValidationError{Problems: problems}
		}

		shippingAddr, err := resolveAddress(tx, userID, req.ShippingAddressID, req.ShippingAddress, useShipping)
		if err != nil {
			return err
		}
		billingAddr := shippingAddr
		if req.BillingAddressID != nil || req.BillingAddress != nil {
			billingAddr, err = resolveAddress(tx, userID, req.BillingAddressID, req.BillingAddress, useBilling)
			if err != nil {
				return err
			}
		}

		totals := computeTotals(cart.Items)

		orderNumber, err := uniqueOrderNumber(tx)
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			product := products[line.ProductID]
			items = append(items, models.OrderItem{
				ProductID:          product.ID,
				ProductTitle:       product.Title,
				ProductSKU:         product.SKU,
				ProductDescription: product.Description,
				ProductImages:      product.Images,
				ProductSpecs:       product.Specifications,
				UnitPrice:          line.Price,
				Quantity:           line.Quantity,
				FulfillmentStatus:  models.FulfillmentPending,
			})
		}

		order := models.Order{
			OrderNumber:     orderNumber,
			UserID:          userID,
			Items:           items,
			Subtotal:        totals.Subtotal,
			Tax:             totals.Tax,
			ShippingCost:    totals.Shipping,
			Discount:        totals.Discount,
			Total:           totals.Total,
			Currency:        currencyCode,
			ShippingAddress: shippingAddr,
			BillingAddress:  billingAddr,
			PaymentMethod:   req.PaymentMethod,
			CustomerNotes:   req.CustomerNotes,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		orderID = order.ID

		// Conditional decrement guards against a concurrent checkout that
		// drained stock between validation and here.
		for _, line := range cart.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", line.ProductID, line.Quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &CartValidationError{Problems: []LineProblem{
					{line.ProductID, "insufficient stock"},
				}}
			}
			if err := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity <= 0", line.ProductID).
				Update("in_stock", false).Error; err != nil {
				return err
			}
		}

		// The cart survives empty; only its lines go.
		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := db.Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, err
	}

	broadcastOrderEvent("order_created", order)
	return &order, nil
}

// uniqueOrderNumber retries on collision a bounded number of times instead
// of recursing. Collisions are close to impossible but still handled.
func uniqueOrderNumber(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		candidate := generateOrderNumber()
		var count int64
		if err := tx.Model(&models.Order{}).Where("order_number = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique order number after %d attempts", maxOrderNumberAttempts)
}

// POST /user/checkout
func CheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_BODY", "message": err.Error()})
			return
		}

		order, err := CreateOrder(db, userID, req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, order)
	}
}
