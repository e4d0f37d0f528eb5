package orderControllers

import (
	"testing"

	"github.com/marketline/storefront-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateOrderTotalsWithFlatShipping(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 29.99, 10)
	seedCart(t, db, user.ID, models.CartItem{ProductID: product.ID, Quantity: 2, Price: 29.99})

	order, err := CreateOrder(db, user.ID, CheckoutRequest{ShippingAddress: inlineAddress()})
	require.NoError(t, err)

	assert.Equal(t, 59.98, order.Subtotal)
	assert.Equal(t, 4.80, order.Tax)
	assert.Equal(t, 9.99, order.ShippingCost)
	assert.Equal(t, 0.0, order.Discount)
	assert.Equal(t, 74.77, order.Total)
	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
}

func TestCreateOrderFreeShippingOverThreshold(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 60.00, 10)
	seedCart(t, db, user.ID, models.CartItem{ProductID: product.ID, Quantity: 2, Price: 60.00})

	order, err := CreateOrder(db, user.ID, CheckoutRequest{ShippingAddress: inlineAddress()})
	require.NoError(t, err)

	assert.Equal(t, 120.00, order.Subtotal)
	assert.Equal(t, 9.60, order.Tax)
	assert.Equal(t, 0.0, order.ShippingCost)
	assert.Equal(t, 129.60, order.Total)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	seedCart(t, db, user.ID) // cart exists but has no lines

	_, err := CreateOrder(db, user.ID, CheckoutRequest{ShippingAddress: inlineAddress()})
	require.ErrorIs(t, err, ErrEmptyCart)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count, "no order row may exist after a failed checkout")
}

func TestCreateOrderNoCartAtAll(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)

	_, err := CreateOrder(db, user.ID, CheckoutRequest{ShippingAddress: inlineAddress()})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateOrderInactiveUser(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	product := seedProduct(t, db, "Widget", 10.00, 5)
	seedCart(t, db, user.ID, models.CartItem{ProductID: product.ID, Quantity: 1, Price: 10.00})

	_, err := CreateOrder(db, user.ID, CheckoutRequest{ShippingAddress: inlineAddress()})
	require.ErrorIs(t, err, ErrInactiveUser)
}

func TestCreateOrderValidationIsAtomic(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	p1 := seedProduct(t, db, "First", 10.00, 5)
	p2 := seedProduct(t, db, "Second", 20.00, 1) // cart wants 3
	p3 := seedProduct(t, db, "Third", 30.00, 5)
	seedCart(t, db, user.ID,
		models.CartItem{ProductID: p1.ID, Quantity: 2, Price: 10.00},
		models.CartItem{ProductID: p2.ID, Quantity: 3, Price: 20.00},
		models.CartItem{ProductID: p3.ID, Quantity: 1, Price: 30.00},
	)

	_, err := CreateOrder(db, user.ID, CheckoutRequest{ShippingAddress: inlineAddress()})

	var cartErr *CartValidationError
	require.ErrorAs(t, err, &cartErr)
	require.Len(t, cartErr.Problems, 1)
	assert.Equal(t, p2.ID, cartErr.Problems[0].ProductID)

	// Nothing may have been written: no orders, no lines, stock untouched,
	// cart intact.
	var orderCount, itemCount, lineCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	require.NoError(t, db.Model(&models.CartItem{}).Count(&lineCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
	assert.Equal(t, int64(3), lineCount)

	for _, tc := range []struct {
		id    uint
		stock int
	}{{p1.ID, 5}, {p2.ID, 1}, {p3.ID, 5}} {
		var product models.Product
		require.NoError(t, db.First(&product, tc.id).Error)
		assert.Equal(t, tc.stock, product.StockQuantity)
	}
}

func TestCreateOrderEnumeratesAllProblems(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)

	inactive := seedProduct(t, db, "Inactive", 10.00, 5)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)
	outOfStock := seedProduct(t, db, "Empty", 15.00, 0)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", outOfStock.ID).Update("in_stock", false).Error)

	seedCart(t, db, user.ID,
		models.CartItem{ProductID: inactive.ID, Quantity: 1, Price: 10.00},
		models.CartItem{ProductID: outOfStock.ID, Quantity: 1, Price: 15.00},
		models.CartItem{ProductID: 99999, Quantity: 1, Price: 1.00},
	)

	_, err := CreateOrder(db, user.ID, CheckoutRequest{ShippingAddress: inlineAddress()})

	var cartErr *CartValidationError
	require.ErrorAs(t, err, &cartErr)
	assert.Len(t, cartErr.Problems, 3, "every offending line must be reported")
}

func TestCreateOrderDecrementsStockAndClearsCart(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	p1 := seedProduct(t, db, "First", 10.00, 5)
	p2 := seedProduct(t, db, "Second", 20.00, 2)
	seedCart(t, db, user.ID,
		models.CartItem{ProductID: p1.ID, Quantity: 3, Price: 10.00},
		models.CartItem{ProductID: p2.ID, Quantity: 2, Price: 20.00},
	)

	order, err := CreateOrder(db, user.ID, CheckoutRequest{ShippingAddress: inlineAddress()})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)

	var first, second models.Product
	require.NoError(t, db.First(&first, p1.ID).Error)
	require.NoError(t, db.First(&second, p2.ID).Error)
	assert.Equal(t, 2, first.StockQuantity)
	assert.True(t, first.InStock)
	assert.Equal(t, 0, second.StockQuantity)
	assert.False(t, second.InStock, "availability flag must drop when stock hits zero")

	// Cart survives, empty.
	var cart models.Cart
	require.NoError(t, db.Preload("Items").Where("user_id = ?", user.ID).First(&cart).Error)
	assert.Empty(t, cart.Items)
}

func TestCreateOrderSnapshotsSurviveCatalogEdits(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Original Title", 25.00, 10)
	seedCart(t, db, user.ID, models.CartItem{ProductID: product.ID, Quantity: 1, Price: 25.00})

	order, err := CreateOrder(db, user.ID, CheckoutRequest{ShippingAddress: inlineAddress()})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Updates(map[string]interface{}{"title": "Renamed", "price": 99.99}).Error)

	var item models.OrderItem
	require.NoError(t, db.First(&item, "order_id = ?", order.ID).Error)
	assert.Equal(t, "Original Title", item.ProductTitle)
	assert.Equal(t, product.SKU, item.ProductSKU)
	assert.Equal(t, 25.00, item.UnitPrice)
	assert.Equal(t, models.FulfillmentPending, item.FulfillmentStatus)
	assert.Zero(t, item.FulfilledQuantity)
}

func TestCreateOrderCartPriceWinsOverLivePrice(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 50.00, 10)
	// Captured at 40 before a price hike.
	seedCart(t, db, user.ID, models.CartItem{ProductID: product.ID, Quantity: 1, Price: 40.00})

	order, err := CreateOrder(db, user.ID, CheckoutRequest{ShippingAddress: inlineAddress()})
	require.NoError(t, err)
	assert.Equal(t, 40.00, order.Subtotal)
}

func TestCreateOrderWithSavedAddress(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	addr := seedAddress(t, db, user.ID, true, true)
	product := seedProduct(t, db, "Widget", 10.00, 5)
	seedCart(t, db, user.ID, models.CartItem{ProductID: product.ID, Quantity: 1, Price: 10.00})

	order, err := CreateOrder(db, user.ID, CheckoutRequest{ShippingAddressID: &addr.ID})
	require.NoError(t, err)

	assert.Equal(t, addr.FirstName, order.ShippingAddress.FirstName)
	assert.Equal(t, addr.Line1, order.ShippingAddress.Line1)
	// Billing defaults to shipping when not supplied.
	assert.Equal(t, order.ShippingAddress, order.BillingAddress)
}

func TestCreateOrderRejectsForeignSavedAddress(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	other := seedUser(t, db)
	foreign := seedAddress(t, db, other.ID, true, true)
	product := seedProduct(t, db, "Widget", 10.00, 5)
	seedCart(t, db, user.ID, models.CartItem{ProductID: product.ID, Quantity: 1, Price: 10.00})

	_, err := CreateOrder(db, user.ID, CheckoutRequest{ShippingAddressID: &foreign.ID})
	require.ErrorIs(t, err, ErrAddressNotFound)
}

func TestCreateOrderRejectsIneligibleAddress(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	shipOnly := seedAddress(t, db, user.ID, true, false)
	product := seedProduct(t, db, "Widget", 10.00, 5)
	seedCart(t, db, user.ID, models.CartItem{ProductID: product.ID, Quantity: 1, Price: 10.00})

	_, err := CreateOrder(db, user.ID, CheckoutRequest{
		ShippingAddressID: &shipOnly.ID,
		BillingAddressID:  &shipOnly.ID,
	})

	var ineligible *AddressIneligibleError
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, "billing", ineligible.Use)
	assert.Equal(t, shipOnly.ID, ineligible.AddressID)
}

func TestCreateOrderRejectsIncompleteInlineAddress(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 10.00, 5)
	seedCart(t, db, user.ID, models.CartItem{ProductID: product.ID, Quantity: 1, Price: 10.00})

	partial := inlineAddress()
	partial.City = ""
	partial.PostalCode = ""

	_, err := CreateOrder(db, user.ID, CheckoutRequest{ShippingAddress: partial})

	var incomplete *AddressIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.ElementsMatch(t, []string{"city", "postal_code"}, incomplete.Missing)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOrderRequiresShippingAddress(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 10.00, 5)
	seedCart(t, db, user.ID, models.CartItem{ProductID: product.ID, Quantity: 1, Price: 10.00})

	_, err := CreateOrder(db, user.ID, CheckoutRequest{})

	var incomplete *AddressIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, "shipping", incomplete.Use)
}

func TestCreateOrderNumbersAreUnique(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 10.00, 50)

	numbers := make(map[string]bool)
	for i := 0; i < 5; i++ {
		seedCartLine(t, db, user.ID, product.ID)
		order, err := CreateOrder(db, user.ID, CheckoutRequest{ShippingAddress: inlineAddress()})
		require.NoError(t, err)
		assert.Regexp(t, `^ORD-\d{14}-[0-9a-f]{8}$`, order.OrderNumber)
		assert.False(t, numbers[order.OrderNumber], "order numbers must not repeat")
		numbers[order.OrderNumber] = true
	}
}

// seedCartLine adds one line to the user's (possibly already existing) cart.
func seedCartLine(t *testing.T, db *gorm.DB, userID, productID uint) {
	t.Helper()
	var cart models.Cart
	require.NoError(t, db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  1,
		Price:     10.00,
	}).Error)
}

func TestCreateOrderStoresPaymentMethodAndNotes(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 10.00, 5)
	seedCart(t, db, user.ID, models.CartItem{ProductID: product.ID, Quantity: 1, Price: 10.00})

	order, err := CreateOrder(db, user.ID, CheckoutRequest{
		ShippingAddress: inlineAddress(),
		PaymentMethod:   "card",
		CustomerNotes:   "leave at the door",
	})
	require.NoError(t, err)
	assert.Equal(t, "card", order.PaymentMethod)
	assert.Equal(t, "leave at the door", order.CustomerNotes)
}

func TestCreateOrderTotalInvariant(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	p1 := seedProduct(t, db, "A", 3.33, 10)
	p2 := seedProduct(t, db, "B", 7.77, 10)
	seedCart(t, db, user.ID,
		models.CartItem{ProductID: p1.ID, Quantity: 3, Price: 3.33},
		models.CartItem{ProductID: p2.ID, Quantity: 2, Price: 7.77},
	)

	order, err := CreateOrder(db, user.ID, CheckoutRequest{ShippingAddress: inlineAddress()})
	require.NoError(t, err)

	sum := order.Subtotal + order.Tax + order.ShippingCost - order.Discount
	assert.InDelta(t, sum, order.Total, 0.001)
}
