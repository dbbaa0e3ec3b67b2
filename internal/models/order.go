package models

import "time"

// Order statuses accepted by the API.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order represents a customer order.
type Order struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Customer  string    `json:"customer" gorm:"type:varchar(255);not null"`
	ProductID uint      `json:"productId" gorm:"not null;index"`
	Quantity  *int      `json:"quantity" gorm:"not null;default:1"` // pointer so an explicit 0 survives the column default
	Total     float64   `json:"total" gorm:"type:decimal(12,2);not null;default:0"`
	Status    string    `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderInput is the whitelisted set of fields a client may send for an order.
type OrderInput struct {
	Customer  *string  `json:"customer" validate:"required"`
	ProductID *uint    `json:"productId" validate:"required"`
	Quantity  *int     `json:"quantity"`
	Total     *float64 `json:"total"`
	Status    *string  `json:"status" validate:"omitempty,oneof=pending processing shipped delivered cancelled"`
}

// NewOrder builds an order from the fields present in the input.
func (in OrderInput) NewOrder() *Order {
	o := &Order{}
	in.ApplyTo(o)
	return o
}

// ApplyTo copies every present field onto o.
func (in OrderInput) ApplyTo(o *Order) {
	if in.Customer != nil {
		o.Customer = *in.Customer
	}
	if in.ProductID != nil {
		o.ProductID = *in.ProductID
	}
	if in.Quantity != nil {
		quantity := *in.Quantity
		o.Quantity = &quantity
	}
	if in.Total != nil {
		o.Total = *in.Total
	}
	if in.Status != nil {
		o.Status = *in.Status
	}
}
