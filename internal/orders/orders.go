// Package orders converts carts into immutable orders. Checkout is the one
// multi-row write in the system and runs as a single transaction: read and
// lock the cart, freeze prices into order items, clear the cart. A failure
// anywhere rolls the whole thing back.
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrNotFound     = errors.New("order not found")
	ErrUnauthorized = errors.New("order belongs to another user")
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

// Checkout turns the user's cart into an order. The cart lines are locked
// while their current prices are read, one order item is written per line
// with that price, and the cart is cleared, all in one transaction. Returns
// the new order id.
func (c *Conf) Checkout(ctx context.Context, userID string, req CheckoutRequest) (string, error) {
	orderID := uuid.NewString()

	err := c.withTx(ctx, func(tx *sql.Tx) error {
		queryLines := `
			SELECT ci.product_id, ci.quantity, p.price
			FROM cart_items ci
			JOIN products p ON p.id = ci.product_id
			WHERE ci.user_id = $1
			ORDER BY ci.id
			FOR UPDATE OF ci
		`
		rows, err := tx.QueryContext(ctx, queryLines, userID)
		if err != nil {
			return fmt.Errorf("querying cart lines: %w", err)
		}

		var items []OrderItem
		var total int64
		for rows.Next() {
			var item OrderItem
			if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
				rows.Close()
				return fmt.Errorf("scanning cart line: %w", err)
			}
			total += item.Price * int64(item.Quantity)
			items = append(items, item)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("iterating cart lines: %w", err)
		}
		rows.Close()

		if len(items) == 0 {
			return ErrEmptyCart
		}

		queryOrder := `
			INSERT INTO orders (id, user_id, total_amount, delivery_address, phone, payment_method, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.ExecContext(ctx, queryOrder,
			orderID, userID, total, req.DeliveryAddress, req.Phone, req.PaymentMethod, StatusPending); err != nil {
			return fmt.Errorf("inserting order: %w", err)
		}

		queryItem := `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)
		`
		for _, item := range items {
			if _, err := tx.ExecContext(ctx, queryItem, orderID, item.ProductID, item.Quantity, item.Price); err != nil {
				return fmt.Errorf("inserting order item: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clearing cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return orderID, nil
}

// ListOrders returns the user's orders newest-first, with items.
func (c *Conf) ListOrders(ctx context.Context, userID string) ([]Order, error) {
	query := `
		SELECT id, user_id, total_amount, delivery_address, phone, payment_method, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var list []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.DeliveryAddress, &o.Phone, &o.PaymentMethod, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}

	for i := range list {
		items, err := c.getOrderItems(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Items = items
	}
	return list, nil
}

// GetOrder fetches one order with items. ErrUnauthorized when the order
// exists but belongs to someone else.
func (c *Conf) GetOrder(ctx context.Context, userID, orderID string) (Order, error) {
	query := `
		SELECT id, user_id, total_amount, delivery_address, phone, payment_method, status, created_at
		FROM orders
		WHERE id = $1
	`
	var o Order
	err := c.db.QueryRowContext(ctx, query, orderID).
		Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.DeliveryAddress, &o.Phone, &o.PaymentMethod, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("querying order: %w", err)
	}
	if o.UserID != userID {
		return Order{}, ErrUnauthorized
	}

	o.Items, err = c.getOrderItems(ctx, o.ID)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

// CountOrders reports the total number of orders for the admin dashboard.
func (c *Conf) CountOrders(ctx context.Context) (int, error) {
	var count int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}
	return count, nil
}

// RecentOrders returns the latest orders across all users, newest-first.
func (c *Conf) RecentOrders(ctx context.Context, limit int) ([]Order, error) {
	query := `
		SELECT id, user_id, total_amount, delivery_address, phone, payment_method, status, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := c.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent orders: %w", err)
	}
	defer rows.Close()

	var list []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.DeliveryAddress, &o.Phone, &o.PaymentMethod, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (c *Conf) getOrderItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	query := `
		SELECT id, product_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := c.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if er := tx.Rollback(); er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}
