package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketline/storefront-api/middleware"
	"github.com/marketline/storefront-api/models"
	"gorm.io/gorm"
)

type AddressInput struct {
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
	Phone      string `json:"phone"`
	CanShip    *bool  `json:"can_ship"`
	CanBill    *bool  `json:"can_bill"`
	IsDefault  bool   `json:"is_default"`
}

func (in AddressInput) toModel(userID uint) models.Address {
	addr := models.Address{
		UserID:     userID,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Line1:      in.Line1,
		Line2:      in.Line2,
		City:       in.City,
		State:      in.State,
		PostalCode: in.PostalCode,
		Country:    in.Country,
		Phone:      in.Phone,
		CanShip:    true,
		CanBill:    true,
		IsDefault:  in.IsDefault,
	}
	if in.CanShip != nil {
		addr.CanShip = *in.CanShip
	}
	if in.CanBill != nil {
		addr.CanBill = *in.CanBill
	}
	return addr
}

// GET /user/addresses
func ListAddresses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var addresses []models.Address
		if err := db.Where("user_id = ?", userID).Order("is_default desc, created_at desc").
			Find(&addresses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch addresses"})
			return
		}

		c.JSON(http.StatusOK, addresses)
	}
}

// POST /user/addresses
func CreateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		addr := input.toModel(userID)
		err := db.Transaction(func(tx *gorm.DB) error {
			if addr.IsDefault {
				if err := tx.Model(&models.Address{}).Where("user_id = ?", userID).
					Update("is_default", false).Error; err != nil {
					return err
				}
			}
			return tx.Create(&addr).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save address"})
			return
		}

		c.JSON(http.StatusCreated, addr)
	}
}

// PUT /user/addresses/:id
func UpdateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var addr models.Address
		if err := db.First(&addr, "id = ? AND user_id = ?", c.Param("id"), userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}

		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		updated := input.toModel(userID)
		updated.ID = addr.ID
		updated.CreatedAt = addr.CreatedAt
		err := db.Transaction(func(tx *gorm.DB) error {
			if updated.IsDefault {
				if err := tx.Model(&models.Address{}).Where("user_id = ? AND id <> ?", userID, addr.ID).
					Update("is_default", false).Error; err != nil {
					return err
				}
			}
			return tx.Save(&updated).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update address"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// DELETE /user/addresses/:id
func DeleteAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		result := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&models.Address{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete address"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
	}
}
