package orderControllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketline/storefront-api/models"
	"github.com/shopspring/decimal"
)

const (
	taxRate               = 0.08
	freeShippingThreshold = 100.00
	flatShippingRate      = 9.99
	currencyCode          = "USD"
	orderNumberPrefix     = "ORD-"
)

type orderTotals struct {
	Subtotal float64
	Tax      float64
	Shipping float64
	Discount float64
	Total    float64
}

// computeTotals prices the cart: subtotal from captured line prices, 8% tax,
// flat shipping waived at the free-shipping threshold. Every figure is
// rounded half away from zero to 2 decimal places.
func computeTotals(items []models.CartItem) orderTotals {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(decimal.NewFromFloat(taxRate)).Round(2)

	shipping := decimal.NewFromFloat(flatShippingRate)
	if subtotal.GreaterThanOrEqual(decimal.NewFromFloat(freeShippingThreshold)) {
		shipping = decimal.Zero
	}

	discount := decimal.Zero
	total := subtotal.Add(tax).Add(shipping).Sub(discount).Round(2)

	return orderTotals{
		Subtotal: subtotal.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Shipping: shipping.InexactFloat64(),
		Discount: discount.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}

// generateOrderNumber builds a candidate like ORD-20250908130500-1a2b3c4d.
// Uniqueness is enforced by the caller against the orders table.
func generateOrderNumber() string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s%s-%s", orderNumberPrefix, time.Now().Format("20060102150405"), suffix)
}
