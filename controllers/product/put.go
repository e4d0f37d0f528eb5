package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketline/storefront-api/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductUpdateInput struct {
	Title          *string         `json:"title"`
	SKU            *string         `json:"sku"`
	Description    *string         `json:"description"`
	Price          *float64        `json:"price"`
	Images         *datatypes.JSON `json:"images"`
	Specifications *datatypes.JSON `json:"specifications"`
	StockQuantity  *int            `json:"stock_quantity"`
	IsActive       *bool           `json:"is_active"`
	CategoryIDs    *[]uint         `json:"category_ids"`
}

// UpdateProduct applies a partial update; only fields present in the body
// change. Adjusting stock also refreshes the availability flag.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.Preload("Categories").First(&product, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			}
			return
		}

		var input ProductUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.Title != nil {
			updates["title"] = *input.Title
		}
		if input.SKU != nil {
			updates["sku"] = *input.SKU
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Price != nil {
			if *input.Price <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
				return
			}
			updates["price"] = *input.Price
		}
		if input.Images != nil {
			updates["images"] = *input.Images
		}
		if input.Specifications != nil {
			updates["specifications"] = *input.Specifications
		}
		if input.StockQuantity != nil {
			if *input.StockQuantity < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stock_quantity cannot be negative"})
				return
			}
			updates["stock_quantity"] = *input.StockQuantity
			updates["in_stock"] = *input.StockQuantity > 0
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if len(updates) > 0 {
				if err := tx.Model(&product).Updates(updates).Error; err != nil {
					return err
				}
			}
			if input.CategoryIDs != nil {
				var categories []models.Category
				if len(*input.CategoryIDs) > 0 {
					if err := tx.Where("id IN ?", *input.CategoryIDs).Find(&categories).Error; err != nil {
						return err
					}
				}
				if err := tx.Model(&product).Association("Categories").Replace(categories); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}
