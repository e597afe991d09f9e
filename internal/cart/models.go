package cart

// Action is a cart line mutation requested by the storefront UI.
type Action string

const (
	ActionIncrease Action = "increase"
	ActionDecrease Action = "decrease"
	ActionRemove   Action = "remove"
)

// Line is a cart row joined with the product it points at. Price is the
// product's current price; nothing in the cart is snapshotted until checkout.
type Line struct {
	ID          int    `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Image       string `json:"image"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	Subtotal    int64  `json:"subtotal"`
}

// CartResponse is the full cart view: lines in insertion order plus the live
// total at current prices.
type CartResponse struct {
	Items []Line `json:"items"`
	Total int64  `json:"total"`
}

// AdjustResult reports the state after a line mutation, for the UI badge and
// the per-line subtotal display.
type AdjustResult struct {
	Count    int   `json:"cart_count"`
	Subtotal int64 `json:"subtotal"`
}
