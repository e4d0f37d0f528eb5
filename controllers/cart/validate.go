package cartControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketline/storefront-api/middleware"
	"github.com/marketline/storefront-api/models"
	"gorm.io/gorm"
)

type LineError struct {
	ProductID uint   `json:"product_id"`
	Reason    string `json:"reason"`
}

type PriceChange struct {
	ProductID uint    `json:"product_id"`
	OldPrice  float64 `json:"old_price"`
	NewPrice  float64 `json:"new_price"`
}

type ValidationResult struct {
	IsValid               bool          `json:"is_valid"`
	Errors                []LineError   `json:"errors"`
	UnavailableProductIDs []uint        `json:"unavailable_product_ids"`
	PriceChanges          []PriceChange `json:"price_changes"`
}

// ValidateCart checks every cart line against live product state. Price
// drift since the item was added is reported separately and does not make
// the cart invalid.
func ValidateCart(db *gorm.DB, userID uint) (*ValidationResult, error) {
	result := &ValidationResult{
		IsValid:               true,
		Errors:                []LineError{},
		UnavailableProductIDs: []uint{},
		PriceChanges:          []PriceChange{},
	}

	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, nil
		}
		return nil, err
	}

	for _, item := range cart.Items {
		var product models.Product
		err := db.First(&product, "id = ?", item.ProductID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.IsValid = false
				result.Errors = append(result.Errors, LineError{item.ProductID, "product no longer exists"})
				result.UnavailableProductIDs = append(result.UnavailableProductIDs, item.ProductID)
				continue
			}
			return nil, err
		}

		switch {
		case !product.IsActive:
			result.IsValid = false
			result.Errors = append(result.Errors, LineError{item.ProductID, "product is no longer available"})
			result.UnavailableProductIDs = append(result.UnavailableProductIDs, item.ProductID)
		case !product.InStock || product.StockQuantity <= 0:
			result.IsValid = false
			result.Errors = append(result.Errors, LineError{item.ProductID, "product is out of stock"})
			result.UnavailableProductIDs = append(result.UnavailableProductIDs, item.ProductID)
		case product.StockQuantity < item.Quantity:
			// Still purchasable at a lower quantity, so the product is not
			// marked wholly unavailable.
			result.IsValid = false
			result.Errors = append(result.Errors, LineError{
				item.ProductID,
				fmt.Sprintf("insufficient stock: %d available, %d requested", product.StockQuantity, item.Quantity),
			})
		}

		if product.Price != item.Price {
			result.PriceChanges = append(result.PriceChanges, PriceChange{
				ProductID: item.ProductID,
				OldPrice:  item.Price,
				NewPrice:  product.Price,
			})
		}
	}

	return result, nil
}

// POST /user/cart/validate
func ValidateCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		result, err := ValidateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate cart"})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
