package kafka

import "time"

const (
	TopicAccountCreated = `users.account-created`
	TopicOrderPlaced    = `orders.order-placed`
)

// AccountCreatedEvent is published after a successful signup.
type AccountCreatedEvent struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderPlacedEvent is published after checkout commits.
type OrderPlacedEvent struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	TotalAmount int64     `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}
