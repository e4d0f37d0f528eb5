package orderControllers

import (
	"errors"

	"github.com/marketline/storefront-api/models"
	"gorm.io/gorm"
)

// AddressInput is a one-off checkout address supplied inline instead of by
// address-book reference.
type AddressInput struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

const (
	useShipping = "shipping"
	useBilling  = "billing"
)

var requiredAddressFields = []string{
	"first_name", "last_name", "line1", "city", "state", "postal_code", "country",
}

// resolveAddress normalizes a saved or inline address into the order-address
// snapshot shape. Saved addresses must belong to the user and carry the type
// flag for the requested use.
func resolveAddress(tx *gorm.DB, userID uint, addressID *uint, inline *AddressInput, use string) (models.OrderAddress, error) {
	if addressID != nil {
		var addr models.Address
		if err := tx.First(&addr, "id = ? AND user_id = ?", *addressID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.OrderAddress{}, ErrAddressNotFound
			}
			return models.OrderAddress{}, err
		}
		if use == useShipping && !addr.CanShip {
			return models.OrderAddress{}, &AddressIneligibleError{AddressID: addr.ID, Use: use}
		}
		if use == useBilling && !addr.CanBill {
			return models.OrderAddress{}, &AddressIneligibleError{AddressID: addr.ID, Use: use}
		}
		return models.OrderAddress{
			FirstName:  addr.FirstName,
			LastName:   addr.LastName,
			Line1:      addr.Line1,
			Line2:      addr.Line2,
			City:       addr.City,
			State:      addr.State,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
			Phone:      addr.Phone,
		}, nil
	}

	if inline == nil {
		return models.OrderAddress{}, &AddressIncompleteError{Use: use, Missing: requiredAddressFields}
	}

	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"first_name", inline.FirstName},
		{"last_name", inline.LastName},
		{"line1", inline.Line1},
		{"city", inline.City},
		{"state", inline.State},
		{"postal_code", inline.PostalCode},
		{"country", inline.Country},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return models.OrderAddress{}, &AddressIncompleteError{Use: use, Missing: missing}
	}

	return models.OrderAddress{
		FirstName:  inline.FirstName,
		LastName:   inline.LastName,
		Line1:      inline.Line1,
		Line2:      inline.Line2,
		City:       inline.City,
		State:      inline.State,
		PostalCode: inline.PostalCode,
		Country:    inline.Country,
		Phone:      inline.Phone,
	}, nil
}
