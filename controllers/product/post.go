package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketline/storefront-api/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductInput struct {
	Title          string         `json:"title" binding:"required"`
	SKU            string         `json:"sku" binding:"required"`
	Description    string         `json:"description"`
	Price          float64        `json:"price" binding:"required,gt=0"`
	Images         datatypes.JSON `json:"images"`
	Specifications datatypes.JSON `json:"specifications"`
	StockQuantity  int            `json:"stock_quantity" binding:"min=0"`
	IsActive       *bool          `json:"is_active"`
	CategoryIDs    []uint         `json:"category_ids"`
}

// CreateProduct creates a new product with its category associations.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var categories []models.Category
		if len(input.CategoryIDs) > 0 {
			if err := db.Where("id IN ?", input.CategoryIDs).Find(&categories).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
				return
			}
		}

		product := models.Product{
			Title:          input.Title,
			SKU:            input.SKU,
			Description:    input.Description,
			Price:          input.Price,
			Images:         input.Images,
			Specifications: input.Specifications,
			StockQuantity:  input.StockQuantity,
			InStock:        input.StockQuantity > 0,
			IsActive:       true,
			Categories:     categories,
		}
		if input.IsActive != nil {
			product.IsActive = *input.IsActive
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}
