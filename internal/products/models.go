package products

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"` // smallest currency unit
	Image       string    `json:"image"`
	CategoryID  int       `json:"category_id"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// NewProduct is the admin create payload.
type NewProduct struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"required,min=0"`
	Image       string `json:"image"`
	CategoryID  int    `json:"category_id" validate:"required,min=1"`
	Stock       int    `json:"stock" validate:"min=0"`
}
