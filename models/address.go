package models

import "time"

// Address is a saved address-book entry. CanShip/CanBill gate which checkout
// roles the entry may serve. The flag columns carry no default tags: GORM
// omits false on insert, so a default:true would silently overwrite it.
type Address struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	FirstName  string    `gorm:"not null" json:"first_name"`
	LastName   string    `gorm:"not null" json:"last_name"`
	Line1      string    `gorm:"not null" json:"line1"`
	Line2      string    `json:"line2"`
	City       string    `gorm:"not null" json:"city"`
	State      string    `gorm:"not null" json:"state"`
	PostalCode string    `gorm:"not null" json:"postal_code"`
	Country    string    `gorm:"not null" json:"country"`
	Phone      string    `json:"phone"`
	CanShip    bool      `gorm:"not null" json:"can_ship"`
	CanBill    bool      `gorm:"not null" json:"can_bill"`
	IsDefault  bool      `gorm:"not null" json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// OrderAddress is the normalized shape snapshotted onto an order. Both saved
// and inline checkout addresses are converted into this before persisting.
type OrderAddress struct {
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
