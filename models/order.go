package models

import (
	"time"

	"gorm.io/datatypes"
)

type OrderStatus string
type PaymentStatus string
type FulfillmentStatus string

const (
	// Order statuses (typical e-commerce flow)
	OrderStatusPending    OrderStatus = "pending"    // Order placed, awaiting confirmation
	OrderStatusConfirmed  OrderStatus = "confirmed"  // Confirmed by seller
	OrderStatusProcessing OrderStatus = "processing" // Being picked and packed
	OrderStatusShipped    OrderStatus = "shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // Customer received the item
	OrderStatusCancelled  OrderStatus = "cancelled"  // Cancelled before shipping
	OrderStatusRefunded   OrderStatus = "refunded"   // Money returned after delivery

	// Payment statuses
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"

	// Per-line fulfillment statuses, independent of the order status
	FulfillmentPending   FulfillmentStatus = "pending"
	FulfillmentPartial   FulfillmentStatus = "partially_fulfilled"
	FulfillmentFulfilled FulfillmentStatus = "fulfilled"
	FulfillmentCancelled FulfillmentStatus = "cancelled"
)

// orderTransitions is the full status state machine. Absence of a source
// status means it is terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusRefunded},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	Subtotal     float64 `gorm:"not null" json:"subtotal"`
	Tax          float64 `gorm:"not null" json:"tax"`
	ShippingCost float64 `gorm:"not null" json:"shipping_cost"`
	Discount     float64 `gorm:"not null;default:0" json:"discount"`
	Total        float64 `gorm:"not null" json:"total"`
	Currency     string  `gorm:"type:VARCHAR(3);default:'USD'" json:"currency"`

	ShippingAddress OrderAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	BillingAddress  OrderAddress `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`

	PaymentMethod string `json:"payment_method"`
	CustomerNotes string `json:"customer_notes"`

	Status         OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus  PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	TrackingNumber string        `json:"tracking_number"`
	Carrier        string        `json:"carrier"`
	AdminNotes     string        `json:"admin_notes"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem freezes the product as sold. Later catalog edits must not alter
// historical orders, so everything shown to the buyer is copied here.
type OrderItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	OrderID   uint `gorm:"index" json:"order_id"`
	ProductID uint `gorm:"not null" json:"product_id"`

	ProductTitle       string         `gorm:"not null" json:"product_title"`
	ProductSKU         string         `gorm:"not null" json:"product_sku"`
	ProductDescription string         `json:"product_description"`
	ProductImages      datatypes.JSON `json:"product_images"`
	ProductSpecs       datatypes.JSON `json:"product_specs"`

	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	Quantity  int     `gorm:"not null" json:"quantity"`

	FulfilledQuantity int               `gorm:"not null;default:0" json:"fulfilled_quantity"`
	FulfillmentStatus FulfillmentStatus `gorm:"type:VARCHAR(25);default:'pending'" json:"fulfillment_status"`
}
