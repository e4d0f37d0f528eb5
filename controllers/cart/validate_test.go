package cartControllers

import (
	"fmt"
	"testing"
	"time"

	"github.com/marketline/storefront-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		Email:        fmt.Sprintf("user-%d@example.com", time.Now().UnixNano()),
		PasswordHash: "x",
		Name:         "Test User",
		Role:         models.RoleCustomer,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, title string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Title:         title,
		SKU:           fmt.Sprintf("SKU-%s-%d", title, time.Now().UnixNano()),
		Price:         price,
		StockQuantity: stock,
		InStock:       stock > 0,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedCartWith(t *testing.T, db *gorm.DB, userID uint, lines ...models.CartItem) {
	t.Helper()
	cart := models.Cart{UserID: userID}
	require.NoError(t, db.Create(&cart).Error)
	for i := range lines {
		lines[i].CartID = cart.ID
		lines[i].AddedAt = time.Now()
		require.NoError(t, db.Create(&lines[i]).Error)
	}
}

func TestValidateCartNoCartIsValid(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)

	result, err := ValidateCart(db, user.ID)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.UnavailableProductIDs)
	assert.Empty(t, result.PriceChanges)
}

func TestValidateCartEmptyCartIsValid(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	seedCartWith(t, db, user.ID)

	result, err := ValidateCart(db, user.ID)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestValidateCartHealthyLines(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Widget", 19.99, 10)
	seedCartWith(t, db, user.ID,
		models.CartItem{ProductID: product.ID, Quantity: 2, Price: 19.99},
	)

	result, err := ValidateCart(db, user.ID)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.PriceChanges)
}

func TestValidateCartMissingProduct(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	seedCartWith(t, db, user.ID,
		models.CartItem{ProductID: 424242, Quantity: 1, Price: 5.00},
	)

	result, err := ValidateCart(db, user.ID)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, uint(424242), result.Errors[0].ProductID)
	assert.Contains(t, result.UnavailableProductIDs, uint(424242))
}

func TestValidateCartInactiveProduct(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Retired", 12.00, 10)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error)
	seedCartWith(t, db, user.ID,
		models.CartItem{ProductID: product.ID, Quantity: 1, Price: 12.00},
	)

	result, err := ValidateCart(db, user.ID)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.UnavailableProductIDs, product.ID)
}

func TestValidateCartOutOfStock(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "SoldOut", 8.00, 0)
	seedCartWith(t, db, user.ID,
		models.CartItem{ProductID: product.ID, Quantity: 1, Price: 8.00},
	)

	result, err := ValidateCart(db, user.ID)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Reason, "out of stock")
	assert.Contains(t, result.UnavailableProductIDs, product.ID)
}

func TestValidateCartInsufficientStockIsNotUnavailable(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Scarce", 8.00, 2)
	seedCartWith(t, db, user.ID,
		models.CartItem{ProductID: product.ID, Quantity: 5, Price: 8.00},
	)

	result, err := ValidateCart(db, user.ID)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Reason, "insufficient stock")
	// Partially available, so not listed as unavailable.
	assert.NotContains(t, result.UnavailableProductIDs, product.ID)
}

func TestValidateCartPriceDriftIsInformational(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "Repriced", 25.00, 10)
	seedCartWith(t, db, user.ID,
		models.CartItem{ProductID: product.ID, Quantity: 1, Price: 20.00},
	)

	result, err := ValidateCart(db, user.ID)
	require.NoError(t, err)
	assert.True(t, result.IsValid, "price drift alone must not invalidate the cart")
	assert.Empty(t, result.Errors)
	require.Len(t, result.PriceChanges, 1)
	assert.Equal(t, 20.00, result.PriceChanges[0].OldPrice)
	assert.Equal(t, 25.00, result.PriceChanges[0].NewPrice)
}

func TestValidateCartReportsEveryProblem(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	missing := uint(999999)
	soldOut := seedProduct(t, db, "Gone", 5.00, 0)
	scarce := seedProduct(t, db, "Few", 5.00, 1)
	fine := seedProduct(t, db, "Fine", 5.00, 10)
	seedCartWith(t, db, user.ID,
		models.CartItem{ProductID: missing, Quantity: 1, Price: 5.00},
		models.CartItem{ProductID: soldOut.ID, Quantity: 1, Price: 5.00},
		models.CartItem{ProductID: scarce.ID, Quantity: 3, Price: 5.00},
		models.CartItem{ProductID: fine.ID, Quantity: 1, Price: 5.00},
	)

	result, err := ValidateCart(db, user.ID)
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Len(t, result.Errors, 3)
	assert.ElementsMatch(t, []uint{missing, soldOut.ID}, result.UnavailableProductIDs)
}
