package orders

import "time"

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// Order is an immutable record of a completed checkout. TotalAmount is the
// cart total frozen at checkout time, in the smallest currency unit.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	TotalAmount     int64       `json:"total_amount"`
	DeliveryAddress string      `json:"delivery_address"`
	Phone           string      `json:"phone"`
	PaymentMethod   string      `json:"payment_method"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots one cart line at checkout. Price is the product's
// price at order time and never changes afterwards.
type OrderItem struct {
	ID        int    `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

// CheckoutRequest carries the delivery details collected on the checkout
// form.
type CheckoutRequest struct {
	DeliveryAddress string `json:"address" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
	PaymentMethod   string `json:"payment_method" validate:"required"`
}
