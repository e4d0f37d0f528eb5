package orderControllers

import (
	"fmt"
	"testing"
	"time"

	"github.com/marketline/storefront-api/models"
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
		&models.PasswordResetToken{},
		&models.Address{},
		&models.Product{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
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
		Description:   title + " description",
		Price:         price,
		StockQuantity: stock,
		InStock:       stock > 0,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedCart(t *testing.T, db *gorm.DB, userID uint, lines ...models.CartItem) models.Cart {
	t.Helper()
	cart := models.Cart{UserID: userID}
	require.NoError(t, db.Create(&cart).Error)
	for i := range lines {
		lines[i].CartID = cart.ID
		lines[i].AddedAt = time.Now()
		require.NoError(t, db.Create(&lines[i]).Error)
	}
	return cart
}

func seedAddress(t *testing.T, db *gorm.DB, userID uint, canShip, canBill bool) models.Address {
	t.Helper()
	addr := models.Address{
		UserID:     userID,
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Line1:      "12 Analytical Way",
		City:       "London",
		State:      "LDN",
		PostalCode: "N1 9GU",
		Country:    "GB",
		CanShip:    canShip,
		CanBill:    canBill,
	}
	require.NoError(t, db.Create(&addr).Error)
	return addr
}

func inlineAddress() *AddressInput {
	return &AddressInput{
		FirstName:  "Grace",
		LastName:   "Hopper",
		Line1:      "1 Harbor St",
		City:       "Arlington",
		State:      "VA",
		PostalCode: "22201",
		Country:    "US",
	}
}
